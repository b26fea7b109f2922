package tile

// header holds an Array's configuration plus every derived quantity
// spec §3 defines. It is recomputed wholesale by recomputeDerived after
// every structural change (construction, Resize, Squeeze, SqueezeIndex,
// Copy/re-tile), which is the single shape-recompute function spec §9
// calls for in place of the C source's two duplicated routines.
type header struct {
	NDim     int
	ItemSize int

	Shape      []int64
	ChunkShape []int64
	BlockShape []int64

	ExtShape      []int64
	ExtChunkShape []int64

	NItems         int64
	ChunkNItems    int64
	BlockNItems    int64
	ExtNItems      int64
	ExtChunkNItems int64
	NChunks        int64
}

// newHeader validates shape/chunkShape/blockShape and returns a fully
// derived header, per spec §3's invariants.
func newHeader(op string, itemSize int, shape, chunkShape, blockShape []int64) (*header, error) {
	ndim := len(shape)
	if ndim > MaxDim {
		return nil, errInvalidIndex(op, "ndim %d exceeds maximum %d", ndim, MaxDim)
	}
	if len(chunkShape) != ndim || len(blockShape) != ndim {
		return nil, errInvalidArgument(op, "chunkshape/blockshape must have length %d", ndim)
	}
	if itemSize <= 0 {
		return nil, errInvalidArgument(op, "itemsize must be positive, got %d", itemSize)
	}
	for i := 0; i < ndim; i++ {
		if shape[i] < 0 {
			return nil, errInvalidArgument(op, "shape[%d] is negative", i)
		}
		if chunkShape[i] < 1 {
			return nil, errInvalidArgument(op, "chunkshape[%d] must be >= 1", i)
		}
		if blockShape[i] < 1 {
			return nil, errInvalidArgument(op, "blockshape[%d] must be >= 1", i)
		}
	}

	h := &header{
		NDim:       ndim,
		ItemSize:   itemSize,
		Shape:      append([]int64(nil), shape...),
		ChunkShape: append([]int64(nil), chunkShape...),
		BlockShape: append([]int64(nil), blockShape...),
	}
	recomputeDerived(h)
	return h, nil
}

// recomputeDerived fills in ExtShape, ExtChunkShape, and every item/chunk
// count from Shape/ChunkShape/BlockShape, per spec §3:
//
//	extshape[i]      = ceil(shape[i]/chunkshape[i])*chunkshape[i], or 0 if shape[i]==0
//	extchunkshape[i] = ceil(chunkshape[i]/blockshape[i])*blockshape[i]
//	nitems           = Π shape[i]
//	chunknitems      = Π chunkshape[i]
//	blocknitems      = Π blockshape[i]
//	extnitems        = Π extshape[i]
//	extchunknitems   = Π extchunkshape[i]
//	nchunks          = extnitems/chunknitems, or 0 if any shape[i]==0
func recomputeDerived(h *header) {
	n := h.NDim
	h.ExtShape = make([]int64, n)
	h.ExtChunkShape = make([]int64, n)

	anyZero := false
	for i := 0; i < n; i++ {
		if h.Shape[i] == 0 {
			anyZero = true
			h.ExtShape[i] = 0
		} else {
			nChunksAxis := (h.Shape[i] + h.ChunkShape[i] - 1) / h.ChunkShape[i]
			h.ExtShape[i] = nChunksAxis * h.ChunkShape[i]
		}
		nBlocksAxis := (h.ChunkShape[i] + h.BlockShape[i] - 1) / h.BlockShape[i]
		h.ExtChunkShape[i] = nBlocksAxis * h.BlockShape[i]
	}

	h.NItems = product(h.Shape)
	h.ChunkNItems = product(h.ChunkShape)
	h.BlockNItems = product(h.BlockShape)
	h.ExtNItems = product(h.ExtShape)
	h.ExtChunkNItems = product(h.ExtChunkShape)

	switch {
	case anyZero:
		h.NChunks = 0
	case h.ChunkNItems == 0:
		h.NChunks = 0
	default:
		h.NChunks = h.ExtNItems / h.ChunkNItems
	}
}

// chunksInArray is the chunk grid cell count per axis (spec §4.1).
func (h *header) chunksInArray() []int64 {
	return gridShape(h.ExtShape, h.ChunkShape)
}

// blocksInChunk is the block grid cell count per axis (spec §4.1).
func (h *header) blocksInChunk() []int64 {
	return gridShape(h.ExtChunkShape, h.BlockShape)
}

// clone deep-copies the header. Nothing in this package calls it:
// Resize and SqueezeIndex build their new header with newHeader instead.
func (h *header) clone() *header {
	c := *h
	c.Shape = append([]int64(nil), h.Shape...)
	c.ChunkShape = append([]int64(nil), h.ChunkShape...)
	c.BlockShape = append([]int64(nil), h.BlockShape...)
	c.ExtShape = append([]int64(nil), h.ExtShape...)
	c.ExtChunkShape = append([]int64(nil), h.ExtChunkShape...)
	return &c
}

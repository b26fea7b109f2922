package tile

import "context"

type sliceMode int

const (
	modeRead sliceMode = iota
	modeWrite
)

// GetSliceBuffer reads the hyperrectangle [start, stop) of the array into
// buf, whose logical outer shape is bufShape (spec §4.3, READ mode).
func (a *Array) GetSliceBuffer(ctx context.Context, buf []byte, bufShape, start, stop []int64) error {
	return a.rectOp(ctx, buf, bufShape, start, stop, modeRead)
}

// SetSliceBuffer writes buf (whose shape equals stop-start, by
// convention) into the hyperrectangle [start, stop) of the array (spec
// §4.3, WRITE mode).
func (a *Array) SetSliceBuffer(ctx context.Context, buf []byte, start, stop []int64) error {
	bufShape := make([]int64, len(start))
	for i := range start {
		bufShape[i] = stop[i] - start[i]
	}
	return a.rectOp(ctx, buf, bufShape, start, stop, modeWrite)
}

// rectOp is the single internal slice-engine routine of spec §4.3: it
// translates an n-dimensional READ or WRITE into the minimum set of
// chunk-level codec calls and block-level CopyRect calls, handling the
// padding introduced when chunkshape/blockshape do not evenly divide
// shape. Grounded on the teacher's ReadRegion/processChunk
// (reader.go), generalized from chunk-only tiling (the teacher's Zarr
// reader has no block level) to the two-level chunk+block engine, and
// from read-only to read+write.
func (a *Array) rectOp(ctx context.Context, buf []byte, bufShape, start, stop []int64, mode sliceMode) error {
	op := "GetSliceBuffer"
	if mode == modeWrite {
		op = "SetSliceBuffer"
	}

	if mode == modeWrite {
		a.mu.Lock()
		defer a.mu.Unlock()
	} else {
		a.mu.RLock()
		defer a.mu.RUnlock()
	}
	h := a.h

	if len(start) != h.NDim || len(stop) != h.NDim || len(bufShape) != h.NDim {
		return errInvalidArgument(op, "start/stop/bufShape must have length %d", h.NDim)
	}
	for i := 0; i < h.NDim; i++ {
		if start[i] < 0 || start[i] > stop[i] || stop[i] > h.Shape[i] {
			return errInvalidArgument(op, "invalid range at axis %d: start=%d stop=%d shape=%d", i, start[i], stop[i], h.Shape[i])
		}
		if mode == modeRead && bufShape[i] < stop[i]-start[i] {
			return errInvalidArgument(op, "buffer shape too small at axis %d", i)
		}
		if mode == modeWrite && bufShape[i] != stop[i]-start[i] {
			return errInvalidArgument(op, "write buffer shape must equal stop-start at axis %d", i)
		}
	}
	needed := int64(h.ItemSize)
	for _, d := range bufShape {
		needed *= d
	}
	if int64(len(buf)) < needed {
		return errInvalidArgument(op, "buffer too small: need %d bytes, have %d", needed, len(buf))
	}

	// ndim == 0: a single-element container, whole chunk read/written.
	if h.NDim == 0 {
		return a.rectOp0D(ctx, buf, mode)
	}

	// Zero-sized axis or an empty range: no-op (spec §4.3 edge cases).
	for i := 0; i < h.NDim; i++ {
		if h.Shape[i] == 0 || start[i] == stop[i] {
			return nil
		}
	}

	updateStart := make([]int64, h.NDim)
	updateShape := make([]int64, h.NDim)
	for i := 0; i < h.NDim; i++ {
		updateStart[i] = start[i] / h.ChunkShape[i]
		lastChunk := (stop[i] - 1) / h.ChunkShape[i]
		updateShape[i] = lastChunk - updateStart[i] + 1
	}

	chunksInArray := h.chunksInArray()
	chunkGridStrides := strides(chunksInArray)
	blocksInChunk := h.blocksInChunk()
	blockGridStrides := strides(blocksInChunk)
	nBlocksPerChunk := product(blocksInChunk)

	return gridIterator(updateShape, func(rel []int64) error {
		chunkCoords := make([]int64, h.NDim)
		chunkStart := make([]int64, h.NDim)
		chunkStop := make([]int64, h.NDim)
		for i := 0; i < h.NDim; i++ {
			chunkCoords[i] = updateStart[i] + rel[i]
			chunkStart[i] = chunkCoords[i] * h.ChunkShape[i]
			chunkStop[i] = min64(chunkStart[i]+h.ChunkShape[i], h.Shape[i])
			if chunkStart[i] >= stop[i] || chunkStop[i] <= start[i] {
				return nil // disjoint chunk footprint: possible on ragged axes
			}
		}

		chunkIdx := int(multiToLin(chunkCoords, chunkGridStrides))
		scratch := make([]byte, h.ExtChunkNItems*int64(h.ItemSize))

		fullyCovered := true
		for i := 0; i < h.NDim; i++ {
			if start[i] > chunkStart[i] || stop[i] < chunkStop[i] {
				fullyCovered = false
				break
			}
		}

		if mode == modeWrite {
			if !fullyCovered {
				if err := a.c.DecompressChunk(ctx, chunkIdx, scratch, nil); err != nil {
					return errCodecFailed(op, err)
				}
			}
		} else {
			mask := make([]bool, nBlocksPerChunk)
			if err := gridIterator(blocksInChunk, func(bc []int64) error {
				blockStart := make([]int64, h.NDim)
				blockStop := make([]int64, h.NDim)
				for i := 0; i < h.NDim; i++ {
					blockStart[i] = chunkStart[i] + bc[i]*h.BlockShape[i]
					blockStop[i] = min64(blockStart[i]+h.BlockShape[i], chunkStop[i])
				}
				disjoint := false
				for i := 0; i < h.NDim; i++ {
					if blockStart[i] >= blockStop[i] || blockStart[i] >= stop[i] || blockStop[i] <= start[i] {
						disjoint = true
						break
					}
				}
				if disjoint {
					mask[multiToLin(bc, blockGridStrides)] = true
				}
				return nil
			}); err != nil {
				return err
			}
			if err := a.c.DecompressChunk(ctx, chunkIdx, scratch, mask); err != nil {
				return errCodecFailed(op, err)
			}
		}

		err := gridIterator(blocksInChunk, func(bc []int64) error {
			blockStart := make([]int64, h.NDim)
			blockStop := make([]int64, h.NDim)
			for i := 0; i < h.NDim; i++ {
				blockStart[i] = chunkStart[i] + bc[i]*h.BlockShape[i]
				blockStop[i] = min64(blockStart[i]+h.BlockShape[i], chunkStop[i])
			}

			sliceStart := make([]int64, h.NDim)
			sliceStop := make([]int64, h.NDim)
			for i := 0; i < h.NDim; i++ {
				sliceStart[i] = max64(blockStart[i], start[i])
				sliceStop[i] = min64(blockStop[i], stop[i])
				if sliceStart[i] >= sliceStop[i] {
					return nil // block disjoint from requested range
				}
			}

			bufStart := make([]int64, h.NDim)
			chunkLocalStart := make([]int64, h.NDim)
			chunkLocalStop := make([]int64, h.NDim)
			for i := 0; i < h.NDim; i++ {
				bufStart[i] = sliceStart[i] - start[i]
				chunkLocalStart[i] = sliceStart[i] - chunkStart[i]
				chunkLocalStop[i] = sliceStop[i] - chunkStart[i]
			}
			bufStop := make([]int64, h.NDim)
			for i := 0; i < h.NDim; i++ {
				bufStop[i] = bufStart[i] + (sliceStop[i] - sliceStart[i])
			}

			if mode == modeRead {
				CopyRect(h.NDim, h.ItemSize,
					scratch, h.ExtChunkShape, chunkLocalStart, chunkLocalStop,
					buf, bufShape, bufStart)
			} else {
				CopyRect(h.NDim, h.ItemSize,
					buf, bufShape, bufStart, bufStop,
					scratch, h.ExtChunkShape, chunkLocalStart)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if mode == modeWrite {
			compressed, err := a.c.CompressChunk(ctx, scratch)
			if err != nil {
				return errCodecFailed(op, err)
			}
			if err := a.c.UpdateChunk(ctx, chunkIdx, compressed, true); err != nil {
				return errCodecFailed(op, err)
			}
		}
		return nil
	})
}

// rectOp0D handles the ndim=0 scalar special case: a single chunk of
// itemsize bytes is read or written whole (spec §4.3).
func (a *Array) rectOp0D(ctx context.Context, buf []byte, mode sliceMode) error {
	h := a.h
	if mode == modeRead {
		scratch := make([]byte, h.ItemSize)
		if err := a.c.DecompressChunk(ctx, 0, scratch, nil); err != nil {
			return errCodecFailed("GetSliceBuffer", err)
		}
		copy(buf[:h.ItemSize], scratch)
		return nil
	}
	compressed, err := a.c.CompressChunk(ctx, buf[:h.ItemSize])
	if err != nil {
		return errCodecFailed("SetSliceBuffer", err)
	}
	if err := a.c.UpdateChunk(ctx, 0, compressed, true); err != nil {
		return errCodecFailed("SetSliceBuffer", err)
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

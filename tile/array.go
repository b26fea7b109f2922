package tile

import (
	"context"
	"sync"
)

// Array is a compressed, chunked, multi-dimensional tensor (spec §3). It
// exclusively owns its header copy and its Container handle; buffers
// passed to slice operations are borrowed for the call and never
// retained.
//
// A single Array must not be mutated from more than one goroutine at a
// time (spec §5). mu defends that contract and additionally allows
// concurrent read-only slice operations, since internal/schunk's read
// path never mutates shared state (see DESIGN.md's "Open question:
// concurrent reads" resolution).
type Array struct {
	mu sync.RWMutex

	h   *header
	c   Container
	cfg Config
}

// NDim, ItemSize, Shape, ChunkShape, BlockShape, ExtShape, ExtChunkShape
// and the item/chunk counts expose the read-only view of spec §3's data
// model. Shape-family getters return copies; callers cannot mutate an
// Array's header through the returned slice.

func (a *Array) NDim() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.NDim
}

func (a *Array) ItemSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.ItemSize
}

func (a *Array) Shape() []int64 { return a.snapshotField(func(h *header) []int64 { return h.Shape }) }
func (a *Array) ChunkShape() []int64 {
	return a.snapshotField(func(h *header) []int64 { return h.ChunkShape })
}
func (a *Array) BlockShape() []int64 {
	return a.snapshotField(func(h *header) []int64 { return h.BlockShape })
}
func (a *Array) ExtShape() []int64 {
	return a.snapshotField(func(h *header) []int64 { return h.ExtShape })
}
func (a *Array) ExtChunkShape() []int64 {
	return a.snapshotField(func(h *header) []int64 { return h.ExtChunkShape })
}

func (a *Array) snapshotField(get func(*header) []int64) []int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	src := get(a.h)
	out := make([]int64, len(src))
	copy(out, src)
	return out
}

func (a *Array) NItems() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.NItems
}
func (a *Array) ChunkNItems() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.ChunkNItems
}
func (a *Array) BlockNItems() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.BlockNItems
}
func (a *Array) ExtNItems() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.ExtNItems
}
func (a *Array) ExtChunkNItems() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.ExtChunkNItems
}
func (a *Array) NChunks() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.h.NChunks
}

// Container exposes the underlying Codec handle, for callers that need
// to drop to metadata operations (tile/metadata.go) directly.
func (a *Array) Container() Container {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.c
}

// Close releases the descriptor and the underlying container handle. If
// the container is persisted at a urlpath, Close does not delete it —
// use Remove for that.
func (a *Array) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.c == nil {
		return nil
	}
	err := a.c.Close(ctx)
	a.c = nil
	if err != nil {
		return errCodecFailed("Close", err)
	}
	return nil
}

// writeDescriptor serializes the current header into the reserved
// "caterva" fixed-metadata entry, creating it if absent. Called after
// every structural change, per spec §4.6/§9 ("the sidecar is rewritten
// at the end" of squeeze/resize, and on every constructor).
func (a *Array) writeDescriptor() error {
	data := encodeDescriptor(a.h.Shape, a.h.ChunkShape, a.h.BlockShape)
	if a.c.MetaExists(DescriptorMetaName) {
		return a.c.MetaUpdate(DescriptorMetaName, data)
	}
	return a.c.MetaAdd(DescriptorMetaName, data)
}

// ToBuffer reads the whole array into a freshly allocated flat byte
// buffer, in row-major order (spec §4.7/original_source's to_buffer).
// It is a thin wrapper over GetSliceBuffer across the full shape.
func (a *Array) ToBuffer(ctx context.Context) ([]byte, error) {
	a.mu.RLock()
	shape := append([]int64(nil), a.h.Shape...)
	itemSize := a.h.ItemSize
	a.mu.RUnlock()

	size := product(shape) * int64(itemSize)
	buf := make([]byte, size)
	start := make([]int64, len(shape))
	if err := a.GetSliceBuffer(ctx, buf, shape, start, shape); err != nil {
		return nil, err
	}
	return buf, nil
}

// FromBuffer overwrites the whole array from a flat row-major buffer
// (original_source's from_buffer applied to an already-constructed
// array; the constructor of the same name additionally allocates first).
func (a *Array) FromBuffer(ctx context.Context, buf []byte) error {
	a.mu.RLock()
	shape := append([]int64(nil), a.h.Shape...)
	a.mu.RUnlock()

	start := make([]int64, len(shape))
	return a.SetSliceBuffer(ctx, buf, start, shape)
}

// Package schunk is tilearray's bundled default implementation of
// tile.Codec/tile.Container: an in-memory chunk table, optionally backed
// by a gocloud.dev/blob bucket, compressing chunks with
// klauspost/compress/zstd and decompressing foreign blosc2-origin chunks
// read-only via github.com/mrjoshuak/go-blosc. Named after the
// "super-chunk" collaborator spec §6 treats as external.
package schunk

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytewright/tilearray/tile"
)

// metaTable is an ordered name->bytes map, grounded on the teacher's
// Metadata struct style (zarr/metadata.go) generalized from a fixed set
// of named fields to an open, insertion-ordered namespace.
type metaTable struct {
	names []string
	data  map[string][]byte
}

func newMetaTable() *metaTable {
	return &metaTable{data: make(map[string][]byte)}
}

func newMetaTableFrom(names []string, data map[string][]byte) *metaTable {
	t := newMetaTable()
	for _, n := range names {
		t.names = append(t.names, n)
		t.data[n] = data[n]
	}
	return t
}

func (t *metaTable) add(name string, value []byte) error {
	if _, exists := t.data[name]; exists {
		return fmt.Errorf("metadata %q already exists", name)
	}
	t.names = append(t.names, name)
	t.data[name] = append([]byte(nil), value...)
	return nil
}

func (t *metaTable) get(name string) ([]byte, bool) {
	v, ok := t.data[name]
	return v, ok
}

func (t *metaTable) exists(name string) bool {
	_, ok := t.data[name]
	return ok
}

// update replaces an entry. fixedSize requires the new value to match
// the existing length (spec §4.8's fixed-namespace invariant); the
// variable-length namespace passes fixedSize=false.
func (t *metaTable) update(name string, value []byte, fixedSize bool) error {
	old, ok := t.data[name]
	if !ok {
		return fmt.Errorf("metadata %q does not exist", name)
	}
	if fixedSize && len(value) != len(old) {
		return fmt.Errorf("metadata %q is fixed-size: got %d bytes, want %d", name, len(value), len(old))
	}
	t.data[name] = append([]byte(nil), value...)
	return nil
}

func (t *metaTable) snapshot() map[string][]byte {
	out := make(map[string][]byte, len(t.data))
	for k, v := range t.data {
		out[k] = v
	}
	return out
}

// container is the default tile.Container: an ordered chunk table of
// opaque envelope blobs (see compress.go), two metaTables, an optional
// decompressed-chunk cache, and an optional blobStore for persistence.
type container struct {
	mu sync.Mutex

	compressorID tile.CompressorID
	level        uint8

	chunks [][]byte

	fixed *metaTable
	vl    *metaTable

	cache *chunkCache
	store *blobStore
}

func (c *container) NChunks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.chunks)
}

func (c *container) UpdateChunk(ctx context.Context, idx int, compressed []byte, replace bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case replace && idx >= 0 && idx < len(c.chunks):
		c.chunks[idx] = append([]byte(nil), compressed...)
	case !replace && idx == len(c.chunks):
		c.chunks = append(c.chunks, append([]byte(nil), compressed...))
	default:
		return fmt.Errorf("update chunk %d invalid (nchunks=%d, replace=%v)", idx, len(c.chunks), replace)
	}
	c.cache.invalidate(idx)
	return c.persistLocked(ctx)
}

func (c *container) DecompressChunk(ctx context.Context, idx int, out []byte, mask []bool) error {
	c.mu.Lock()
	if idx < 0 || idx >= len(c.chunks) {
		c.mu.Unlock()
		return fmt.Errorf("decompress chunk %d out of range (nchunks=%d)", idx, len(c.chunks))
	}
	blob := c.chunks[idx]
	cache := c.cache
	c.mu.Unlock()

	if cached, ok := cache.get(idx); ok && len(cached) == len(out) {
		copy(out, cached)
		return nil
	}

	if err := decodeChunk(blob, out); err != nil {
		return err
	}
	cache.set(idx, append([]byte(nil), out...))
	return nil
}

func (c *container) CompressChunk(ctx context.Context, raw []byte) ([]byte, error) {
	c.mu.Lock()
	level := c.level
	c.mu.Unlock()
	return encodeZstd(raw, zstdLevel(level))
}

func (c *container) RepeatValueChunk(nBytes, itemSize int, value []byte) ([]byte, error) {
	if len(value) != itemSize {
		return nil, fmt.Errorf("value length %d != itemsize %d", len(value), itemSize)
	}
	return encodeRepeat(value), nil
}

func (c *container) AppendSpecial(ctx context.Context, kind tile.FillKind, nChunks int, chunkNItems int64, itemSize int) error {
	if nChunks < 0 {
		return fmt.Errorf("nChunks must be >= 0, got %d", nChunks)
	}
	pattern := make([]byte, itemSize) // zero bytes for FillKindZero and FillKindUninit alike
	_ = kind
	blob := encodeRepeat(pattern)

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := 0; i < nChunks; i++ {
		c.chunks = append(c.chunks, append([]byte(nil), blob...))
	}
	return c.persistLocked(ctx)
}

func (c *container) Truncate(ctx context.Context, n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 0 || n > len(c.chunks) {
		return fmt.Errorf("truncate %d out of range (nchunks=%d)", n, len(c.chunks))
	}
	for idx := n; idx < len(c.chunks); idx++ {
		c.cache.invalidate(idx)
	}
	c.chunks = c.chunks[:n]
	return c.persistLocked(ctx)
}

func (c *container) Copy(ctx context.Context, storage tile.StorageOptions) (tile.Container, error) {
	c.mu.Lock()
	dup := &container{
		compressorID: c.compressorID,
		level:        c.level,
		chunks:       make([][]byte, len(c.chunks)),
		fixed:        newMetaTableFrom(append([]string(nil), c.fixed.names...), c.fixed.snapshot()),
		vl:           newMetaTableFrom(append([]string(nil), c.vl.names...), c.vl.snapshot()),
	}
	for i, b := range c.chunks {
		dup.chunks[i] = append([]byte(nil), b...)
	}
	c.mu.Unlock()

	if storage.URLPath != "" {
		store, err := openBlobStore(ctx, storage.URLPath, storage.Sequential)
		if err != nil {
			return nil, err
		}
		dup.store = store
		if err := store.persist(ctx, dup); err != nil {
			store.close()
			return nil, err
		}
	}
	return dup, nil
}

func (c *container) ToBytes(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toBytesLocked()
}

func (c *container) Close(ctx context.Context) error {
	c.mu.Lock()
	store := c.store
	c.mu.Unlock()
	if store != nil {
		return store.close()
	}
	return nil
}

func (c *container) MetaAdd(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fixed.add(name, data); err != nil {
		return err
	}
	return c.persistLocked(context.Background())
}

func (c *container) MetaGet(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fixed.get(name)
}

func (c *container) MetaExists(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fixed.exists(name)
}

func (c *container) MetaUpdate(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fixed.update(name, data, true); err != nil {
		return err
	}
	return c.persistLocked(context.Background())
}

func (c *container) MetaNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.fixed.names...)
}

func (c *container) VLMetaAdd(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.vl.add(name, data); err != nil {
		return err
	}
	return c.persistLocked(context.Background())
}

func (c *container) VLMetaGet(name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vl.get(name)
}

func (c *container) VLMetaExists(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vl.exists(name)
}

func (c *container) VLMetaUpdate(name string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.vl.update(name, data, false); err != nil {
		return err
	}
	return c.persistLocked(context.Background())
}

func (c *container) VLMetaNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.vl.names...)
}

// persistLocked writes the container's state to its blobStore, if any.
// Called with c.mu held.
func (c *container) persistLocked(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	return c.store.persist(ctx, c)
}

// Codec is the bundled default tile.Codec: new containers always write
// zstd (spec §6/DESIGN.md — CodecBlosc is accepted only when opening a
// foreign container, never at construction time).
type Codec struct{}

// NewCodec returns the default Codec.
func NewCodec() *Codec { return &Codec{} }

func (Codec) NewContainer(ctx context.Context, cfg tile.Config) (tile.Container, error) {
	if cfg.CompCodec == tile.CodecBlosc {
		return nil, fmt.Errorf("schunk: cannot write blosc-compressed containers, only zstd")
	}
	cache, err := newChunkCache(cfg.CacheBytes)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}
	c := &container{
		compressorID: tile.CodecZstd,
		level:        cfg.CompLevel,
		fixed:        newMetaTable(),
		vl:           newMetaTable(),
		cache:        cache,
	}
	if cfg.Storage.URLPath != "" {
		store, err := openBlobStore(ctx, cfg.Storage.URLPath, cfg.Storage.Sequential)
		if err != nil {
			return nil, err
		}
		c.store = store
		if err := store.persist(ctx, c); err != nil {
			store.close()
			return nil, err
		}
	}
	return c, nil
}

func (Codec) OpenContainer(ctx context.Context, urlpath string) (tile.Container, error) {
	store, err := openBlobStore(ctx, urlpath, true)
	if err != nil {
		return nil, err
	}
	c, err := store.load(ctx)
	if err != nil {
		// A sequential load failed; retry assuming the sparse layout.
		sparse, sparseErr := openBlobStore(ctx, urlpath, false)
		if sparseErr != nil {
			store.close()
			return nil, err
		}
		c, err = sparse.load(ctx)
		if err != nil {
			store.close()
			sparse.close()
			return nil, err
		}
		store.close()
		store = sparse
	}
	c.store = store
	return c, nil
}

func (Codec) ContainerFromBytes(ctx context.Context, data []byte) (tile.Container, error) {
	return containerFromBytes(data)
}

func (Codec) RemoveURLPath(ctx context.Context, urlpath string) error {
	return removeURLPath(ctx, urlpath)
}

var _ tile.Codec = Codec{}
var _ tile.Container = (*container)(nil)

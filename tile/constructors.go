package tile

import "context"

// Empty allocates a Container via codec and attaches the descriptor,
// filling it with NChunks chunks per cfg.FillPolicy (spec §4.7 — the
// source always substitutes zero "to avoid variable compression ratios";
// this rework makes that an explicit, documented choice instead, see
// DESIGN.md's Open Question log).
func Empty(ctx context.Context, codec Codec, cfg Config, itemSize int, shape, chunkShape, blockShape []int64) (*Array, error) {
	if codec == nil {
		return nil, errNullPointer("Empty", "codec")
	}
	h, err := newHeader("Empty", itemSize, shape, chunkShape, blockShape)
	if err != nil {
		return nil, err
	}

	c, err := codec.NewContainer(ctx, cfg)
	if err != nil {
		return nil, errCodecFailed("Empty", err)
	}

	a := &Array{h: h, c: c, cfg: cfg}

	if h.NChunks > 0 {
		kind := FillKindZero
		if cfg.FillPolicy == FillUninitialized {
			kind = FillKindUninit
		}
		if err := c.AppendSpecial(ctx, kind, int(h.NChunks), h.ExtChunkNItems, itemSize); err != nil {
			c.Close(ctx)
			return nil, errCodecFailed("Empty", err)
		}
	}

	if err := attachMetalayers(a, cfg); err != nil {
		c.Close(ctx)
		return nil, err
	}

	return a, nil
}

// Zeros is Empty with an explicit FillZero policy, guaranteeing every
// element reads back as zero regardless of cfg.FillPolicy (spec §4.7).
func Zeros(ctx context.Context, codec Codec, cfg Config, itemSize int, shape, chunkShape, blockShape []int64) (*Array, error) {
	cfg.FillPolicy = FillZero
	return Empty(ctx, codec, cfg, itemSize, shape, chunkShape, blockShape)
}

// Full allocates an array every one of whose elements equals value
// (itemSize bytes), per spec §4.7.
func Full(ctx context.Context, codec Codec, cfg Config, itemSize int, shape, chunkShape, blockShape []int64, value []byte) (*Array, error) {
	if len(value) != itemSize {
		return nil, errInvalidArgument("Full", "value must be exactly itemsize (%d) bytes, got %d", itemSize, len(value))
	}
	a, err := Empty(ctx, codec, cfg, itemSize, shape, chunkShape, blockShape)
	if err != nil {
		return nil, err
	}
	h := a.h
	nBytes := int(h.ExtChunkNItems) * itemSize
	for i := int64(0); i < h.NChunks; i++ {
		chunkBytes, err := a.c.RepeatValueChunk(nBytes, itemSize, value)
		if err != nil {
			a.Close(ctx)
			return nil, errCodecFailed("Full", err)
		}
		if err := a.c.UpdateChunk(ctx, int(i), chunkBytes, true); err != nil {
			a.Close(ctx)
			return nil, errCodecFailed("Full", err)
		}
	}
	return a, nil
}

// FromBuffer is Empty followed by writing buf into the full shape (spec
// §4.7): "empty, then set_slice_buffer(buf, shape, 0..shape)".
func FromBuffer(ctx context.Context, codec Codec, cfg Config, itemSize int, shape, chunkShape, blockShape []int64, buf []byte) (*Array, error) {
	needed := product(shape) * int64(itemSize)
	if int64(len(buf)) < needed {
		return nil, errInvalidArgument("FromBuffer", "buffer too small: need %d bytes, have %d", needed, len(buf))
	}
	a, err := Empty(ctx, codec, cfg, itemSize, shape, chunkShape, blockShape)
	if err != nil {
		return nil, err
	}
	if err := a.FromBuffer(ctx, buf); err != nil {
		a.Close(ctx)
		return nil, err
	}
	return a, nil
}

// FromContainer adopts an already-open Container, reading the "caterva"
// sidecar to recover shape/chunkshape/blockshape (spec §4.7).
func FromContainer(ctx context.Context, cfg Config, c Container) (*Array, error) {
	if c == nil {
		return nil, errNullPointer("FromContainer", "container")
	}
	raw, ok := c.MetaGet(DescriptorMetaName)
	if !ok {
		return nil, errInvalidArgument("FromContainer", "container has no %q descriptor", DescriptorMetaName)
	}
	d, err := decodeDescriptor("FromContainer", raw)
	if err != nil {
		return nil, err
	}

	itemSize := cfg.itemSizeOrDefault()
	shape := d.Shape
	chunkShape := make([]int64, d.NDim)
	blockShape := make([]int64, d.NDim)
	for i := 0; i < d.NDim; i++ {
		chunkShape[i] = int64(d.ChunkShape[i])
		blockShape[i] = int64(d.BlockShape[i])
	}

	h, err := newHeader("FromContainer", itemSize, shape, chunkShape, blockShape)
	if err != nil {
		return nil, err
	}
	return &Array{h: h, c: c, cfg: cfg}, nil
}

// itemSizeOrDefault lets callers store itemsize out of band (the
// descriptor sidecar itself, per spec §4.6, does not carry itemsize —
// only ndim/shape/chunkshape/blockshape). Config.CompMeta is repurposed
// by nothing here; instead FromContainer requires the caller to set
// Config.itemSize via WithItemSize, defaulting to 1.
func (cfg Config) itemSizeOrDefault() int {
	if cfg.itemSize > 0 {
		return cfg.itemSize
	}
	return 1
}

// WithItemSize returns a copy of cfg recording the element width to use
// when opening/adopting a container that has no itemsize of its own
// (FromContainer, FromSerialized, Open).
func (cfg Config) WithItemSize(itemSize int) Config {
	cfg.itemSize = itemSize
	return cfg
}

// FromSerialized deserializes bytes into a Container via codec, then
// adopts it exactly like FromContainer (spec §4.7).
func FromSerialized(ctx context.Context, codec Codec, cfg Config, data []byte) (*Array, error) {
	if codec == nil {
		return nil, errNullPointer("FromSerialized", "codec")
	}
	c, err := codec.ContainerFromBytes(ctx, data)
	if err != nil {
		return nil, errCodecFailed("FromSerialized", err)
	}
	a, err := FromContainer(ctx, cfg, c)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	return a, nil
}

// Open opens a persisted Container at urlpath via codec, then adopts it
// like FromContainer (spec §4.7).
func Open(ctx context.Context, codec Codec, cfg Config, urlpath string) (*Array, error) {
	if codec == nil {
		return nil, errNullPointer("Open", "codec")
	}
	if urlpath == "" {
		return nil, errNullPointer("Open", "urlpath")
	}
	c, err := codec.OpenContainer(ctx, urlpath)
	if err != nil {
		return nil, errCodecFailed("Open", err)
	}
	a, err := FromContainer(ctx, cfg, c)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	return a, nil
}

// Serialize returns the ToBytes frame of the array's Container, for
// round-tripping through FromSerialized (spec's container_to_bytes).
func (a *Array) Serialize(ctx context.Context) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	data, err := a.c.ToBytes(ctx)
	if err != nil {
		return nil, errCodecFailed("Serialize", err)
	}
	return data, nil
}

// Remove deletes a persisted container's backing storage (spec §6's
// remove_urlpath), distinct from Close which only releases the handle.
func Remove(ctx context.Context, codec Codec, urlpath string) error {
	if codec == nil {
		return errNullPointer("Remove", "codec")
	}
	if err := codec.RemoveURLPath(ctx, urlpath); err != nil {
		return errCodecFailed("Remove", err)
	}
	return nil
}

func attachMetalayers(a *Array, cfg Config) error {
	if err := a.writeDescriptor(); err != nil {
		return errCodecFailed("Empty", err)
	}
	for _, ml := range cfg.Metalayers {
		if ml.Name == DescriptorMetaName {
			return errInvalidArgument("Empty", "metalayer name %q is reserved", DescriptorMetaName)
		}
		if err := a.c.MetaAdd(ml.Name, ml.Data); err != nil {
			return errCodecFailed("Empty", err)
		}
	}
	return nil
}

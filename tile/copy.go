package tile

import (
	"context"
	"reflect"
)

// Copy duplicates src, possibly re-partitioning it into a different
// chunk/block shape, per spec §4.4. When newChunkShape/newBlockShape
// match src's own, the fast path delegates to Container.Copy (verbatim
// chunk duplication); otherwise the re-tile path rebuilds the array
// chunk by chunk through the slice engine. Both paths carry every named
// metadata entry across except the reserved descriptor.
func Copy(ctx context.Context, codec Codec, cfg Config, src *Array, newChunkShape, newBlockShape []int64) (*Array, error) {
	src.mu.RLock()
	shape := append([]int64(nil), src.h.Shape...)
	srcChunkShape := append([]int64(nil), src.h.ChunkShape...)
	srcBlockShape := append([]int64(nil), src.h.BlockShape...)
	itemSize := src.h.ItemSize
	srcContainer := src.c
	src.mu.RUnlock()

	if srcContainer == nil {
		return nil, errNullPointer("Copy", "src container")
	}

	if reflect.DeepEqual(newChunkShape, srcChunkShape) && reflect.DeepEqual(newBlockShape, srcBlockShape) {
		c, err := srcContainer.Copy(ctx, cfg.Storage)
		if err != nil {
			return nil, errCodecFailed("Copy", err)
		}
		return FromContainer(ctx, cfg.WithItemSize(itemSize), c)
	}

	dst, err := Empty(ctx, codec, cfg, itemSize, shape, newChunkShape, newBlockShape)
	if err != nil {
		return nil, err
	}

	if err := retileCopy(ctx, src, dst, cfg); err != nil {
		dst.Close(ctx)
		return nil, err
	}

	if err := carryMetadata(srcContainer, dst.c); err != nil {
		dst.Close(ctx)
		return nil, err
	}

	return dst, nil
}

// carryMetadata copies every fixed and variable-length metadata entry
// from src to dst except the reserved descriptor name, per spec §4.4.
func carryMetadata(src, dst Container) error {
	for _, name := range src.MetaNames() {
		if name == DescriptorMetaName {
			continue
		}
		data, ok := src.MetaGet(name)
		if !ok {
			continue
		}
		var err error
		if dst.MetaExists(name) {
			err = dst.MetaUpdate(name, data)
		} else {
			err = dst.MetaAdd(name, data)
		}
		if err != nil {
			return errCodecFailed("Copy", err)
		}
	}
	for _, name := range src.VLMetaNames() {
		data, ok := src.VLMetaGet(name)
		if !ok {
			continue
		}
		var err error
		if dst.VLMetaExists(name) {
			err = dst.VLMetaUpdate(name, data)
		} else {
			err = dst.VLMetaAdd(name, data)
		}
		if err != nil {
			return errCodecFailed("Copy", err)
		}
	}
	return nil
}

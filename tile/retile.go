package tile

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// retileCopy rebuilds dst's chunks from src via the slice engine, one
// destination chunk at a time, fanning the independent
// get-from-source/set-into-destination units across a bounded worker
// pool (spec §4.4's re-tile path). Grounded on restic's errgroup.Group
// worker-pool idiom (helpers/build-release-binaries/main.go) — each
// destination chunk is processed exactly once and chunks never overlap,
// so bounding concurrency here only affects throughput, never the
// single-threaded ordering contract of spec §5 (dst is not yet visible
// to any other caller while Copy is running).
func retileCopy(ctx context.Context, src, dst *Array, cfg Config) error {
	dst.mu.RLock()
	shape := append([]int64(nil), dst.h.Shape...)
	chunkShape := append([]int64(nil), dst.h.ChunkShape...)
	itemSize := dst.h.ItemSize
	chunksInArray := dst.h.chunksInArray()
	dst.mu.RUnlock()

	if product(chunksInArray) == 0 {
		return nil
	}

	limit := cfg.NThreads
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	if limit > 16 {
		limit = 16
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	ndim := len(shape)
	err := gridIterator(chunksInArray, func(coords []int64) error {
		chunkStart := make([]int64, ndim)
		chunkStop := make([]int64, ndim)
		for i := 0; i < ndim; i++ {
			chunkStart[i] = coords[i] * chunkShape[i]
			chunkStop[i] = min64(chunkStart[i]+chunkShape[i], shape[i])
		}
		chunkShapeClipped := make([]int64, ndim)
		empty := false
		for i := 0; i < ndim; i++ {
			chunkShapeClipped[i] = chunkStop[i] - chunkStart[i]
			if chunkShapeClipped[i] <= 0 {
				empty = true
			}
		}
		if empty {
			return nil
		}

		g.Go(func() error {
			size := product(chunkShapeClipped) * int64(itemSize)
			buf := make([]byte, size)
			if err := src.GetSliceBuffer(ctx, buf, chunkShapeClipped, chunkStart, chunkStop); err != nil {
				return err
			}
			if err := dst.SetSliceBuffer(ctx, buf, chunkStart, chunkStop); err != nil {
				return err
			}
			return nil
		})
		return nil
	})
	if err != nil {
		return err
	}

	return g.Wait()
}

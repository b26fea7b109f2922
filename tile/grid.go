package tile

// strides computes row-major (C-order) strides for shape, exactly as
// spec §4.1 defines: stride[n-1] = 1, stride[i] = stride[i+1]*shape[i+1].
// Grounded on the teacher's zarr.strides (reader.go) and
// zarr.Dataset's inlined stride loop (zarr/dataset.go), generalized to
// int64 and reused for both the array shape and the chunk shape grids.
func strides(shape []int64) []int64 {
	n := len(shape)
	if n == 0 {
		return []int64{}
	}
	s := make([]int64, n)
	stride := int64(1)
	for i := n - 1; i >= 0; i-- {
		s[i] = stride
		stride *= shape[i]
	}
	return s
}

// linToMulti converts a linear (flat) index into a multi-index over shape
// using the given strides, via successive division (spec §4.1).
func linToMulti(lin int64, shapeStrides []int64, out []int64) {
	rem := lin
	for i, s := range shapeStrides {
		if s == 0 {
			out[i] = 0
			continue
		}
		out[i] = rem / s
		rem -= out[i] * s
	}
}

// multiToLin converts a multi-index into a linear index: sum(idx[j]*stride[j]).
func multiToLin(idx, shapeStrides []int64) int64 {
	var lin int64
	for j := range idx {
		lin += idx[j] * shapeStrides[j]
	}
	return lin
}

// gridShape computes, for each axis, ceil(extent/tile) — the number of
// grid cells tiling extent at the given tile size. Used for both the
// chunk grid (extshape/chunkshape) and the block grid
// (extchunkshape/blockshape), per spec §4.1.
func gridShape(extent, tile []int64) []int64 {
	n := len(extent)
	grid := make([]int64, n)
	for i := 0; i < n; i++ {
		if tile[i] <= 0 {
			grid[i] = 0
			continue
		}
		grid[i] = (extent[i] + tile[i] - 1) / tile[i]
	}
	return grid
}

// product returns the product of every element, or 1 for an empty slice
// (the ndim=0 scalar convention used throughout the spec).
func product(dims []int64) int64 {
	p := int64(1)
	for _, d := range dims {
		p *= d
	}
	return p
}

// gridIterator enumerates every multi-index of a grid shape in row-major
// order, calling fn once per cell. It stops and returns the first error
// fn returns. Grounded on the teacher's iterateSubGrid (zarr/dataset.go)
// and the recursive iterateChunks closures in reader.go, generalized
// into a single reusable, non-recursive (explicit odometer) iterator.
func gridIterator(gridDims []int64, fn func(coords []int64) error) error {
	n := len(gridDims)
	if n == 0 {
		return fn(nil)
	}
	for _, d := range gridDims {
		if d <= 0 {
			return nil
		}
	}
	coords := make([]int64, n)
	for {
		if err := fn(coords); err != nil {
			return err
		}
		i := n - 1
		for ; i >= 0; i-- {
			coords[i]++
			if coords[i] < gridDims[i] {
				break
			}
			coords[i] = 0
		}
		if i < 0 {
			return nil
		}
	}
}

package tile

// CopyRect copies the hyperrectangle [srcStart, srcStop) out of src (a
// dense row-major buffer whose outer box is srcPaddedShape) into dst
// (likewise dstPaddedShape) starting at dstStart, per spec §4.2.
//
// The innermost axis is copied as a single contiguous byte run; the outer
// ndim-1 axes are enumerated as nested counters over (srcStop-srcStart).
// If any axis of the copy shape is zero, CopyRect is a no-op. Behaviour
// on overlapping src/dst regions is undefined — the slice engine never
// creates overlap (spec §4.2's explicit contract).
//
// Grounded on the teacher's copyND (reader.go): same
// bulk-copy-the-contiguous-innermost-run idea, generalized into a public,
// bidirectional primitive (the teacher's version only ever copies
// chunk-buffer -> caller-buffer for reads).
func CopyRect(
	ndim, itemsize int,
	src []byte, srcPaddedShape, srcStart, srcStop []int64,
	dst []byte, dstPaddedShape, dstStart []int64,
) {
	if ndim == 0 {
		copy(dst[:itemsize], src[:itemsize])
		return
	}

	copyShape := make([]int64, ndim)
	for i := 0; i < ndim; i++ {
		copyShape[i] = srcStop[i] - srcStart[i]
		if copyShape[i] == 0 {
			return
		}
	}

	srcStrides := strides(srcPaddedShape)
	dstStrides := strides(dstPaddedShape)

	srcBase := multiToLin(srcStart, srcStrides)
	dstBase := multiToLin(dstStart, dstStrides)

	copyRectRecurse(0, ndim, itemsize, src, srcStrides, srcBase, dst, dstStrides, dstBase, copyShape)
}

func copyRectRecurse(
	dim, ndim, itemsize int,
	src []byte, srcStrides []int64, srcIdx int64,
	dst []byte, dstStrides []int64, dstIdx int64,
	copyShape []int64,
) {
	if dim == ndim-1 {
		n := copyShape[dim]
		if srcStrides[dim] == 1 && dstStrides[dim] == 1 {
			byteLen := n * int64(itemsize)
			srcStart := srcIdx * int64(itemsize)
			dstStart := dstIdx * int64(itemsize)
			copy(dst[dstStart:dstStart+byteLen], src[srcStart:srcStart+byteLen])
			return
		}
		for i := int64(0); i < n; i++ {
			s := (srcIdx + i*srcStrides[dim]) * int64(itemsize)
			d := (dstIdx + i*dstStrides[dim]) * int64(itemsize)
			copy(dst[d:d+int64(itemsize)], src[s:s+int64(itemsize)])
		}
		return
	}

	for i := int64(0); i < copyShape[dim]; i++ {
		copyRectRecurse(dim+1, ndim, itemsize,
			src, srcStrides, srcIdx+i*srcStrides[dim],
			dst, dstStrides, dstIdx+i*dstStrides[dim],
			copyShape)
	}
}

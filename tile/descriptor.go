package tile

import (
	"encoding/binary"
	"fmt"
)

// Wire format marker bytes, reproduced byte-for-byte from spec §4.6 /
// original_source/caterva/caterva_utils.c's serialize_meta. These are
// fixed and must round-trip exactly.
const (
	descTupleMarker = 0x95 // 5-element tuple: version, ndim, shape, chunkshape, blockshape
	descArrayBase   = 0x90 // fixarray with N elements: 0x90|N
	descInt64Marker = 0xd3
	descInt32Marker = 0xd2
)

// descriptorVersion is the metalayer format version (spec §4.6).
const descriptorVersion = 0

// descriptor is the decoded form of the "caterva" sidecar.
type descriptor struct {
	NDim       int
	Shape      []int64
	ChunkShape []int32
	BlockShape []int32
}

// encodeDescriptor serializes (ndim, shape, chunkshape, blockshape) into
// the fixed big-endian byte layout of spec §4.6.
func encodeDescriptor(shape, chunkShape, blockShape []int64) []byte {
	ndim := len(shape)
	buf := make([]byte, 0, 3+3*(1+ndim*9))

	buf = append(buf, descTupleMarker)
	buf = append(buf, descriptorVersion)
	buf = append(buf, byte(ndim))

	buf = append(buf, byte(descArrayBase+ndim))
	for i := 0; i < ndim; i++ {
		buf = append(buf, descInt64Marker)
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], uint64(shape[i]))
		buf = append(buf, tmp[:]...)
	}

	buf = append(buf, byte(descArrayBase+ndim))
	for i := 0; i < ndim; i++ {
		buf = append(buf, descInt32Marker)
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(chunkShape[i]))
		buf = append(buf, tmp[:]...)
	}

	buf = append(buf, byte(descArrayBase+ndim))
	for i := 0; i < ndim; i++ {
		buf = append(buf, descInt32Marker)
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(blockShape[i]))
		buf = append(buf, tmp[:]...)
	}

	return buf
}

// decodeDescriptor parses the byte layout produced by encodeDescriptor.
// Reading is tolerant: any ndim up to MaxDim is accepted. The returned
// shape slices hold exactly ndim entries; axes beyond ndim are not
// materialized and are implicitly of length 1 (see MaxDim).
func decodeDescriptor(op string, data []byte) (*descriptor, error) {
	if len(data) < 3 {
		return nil, errInvalidArgument(op, "descriptor too short: %d bytes", len(data))
	}
	if data[0] != descTupleMarker {
		return nil, errInvalidArgument(op, "bad descriptor marker 0x%x", data[0])
	}
	// data[1] is the version byte; this codec understands only version 0
	// but does not reject newer minor versions since the layout (5
	// fixed entries) hasn't changed.
	ndim := int(data[2])
	if ndim > MaxDim {
		return nil, errInvalidIndex(op, "descriptor ndim %d exceeds maximum %d", ndim, MaxDim)
	}

	pos := 3
	readArray := func(elemMarker byte, elemSize int) ([]int64, error) {
		if pos >= len(data) {
			return nil, errInvalidArgument(op, "descriptor truncated")
		}
		if data[pos] != byte(descArrayBase+ndim) {
			return nil, errInvalidArgument(op, "bad descriptor array header 0x%x", data[pos])
		}
		pos++
		out := make([]int64, ndim)
		for i := 0; i < ndim; i++ {
			if pos >= len(data) || data[pos] != elemMarker {
				return nil, errInvalidArgument(op, "bad descriptor element marker")
			}
			pos++
			if pos+elemSize > len(data) {
				return nil, errInvalidArgument(op, "descriptor truncated")
			}
			if elemSize == 8 {
				out[i] = int64(binary.BigEndian.Uint64(data[pos : pos+8]))
			} else {
				out[i] = int64(binary.BigEndian.Uint32(data[pos : pos+4]))
			}
			pos += elemSize
		}
		return out, nil
	}

	shape, err := readArray(descInt64Marker, 8)
	if err != nil {
		return nil, err
	}
	chunkShape64, err := readArray(descInt32Marker, 4)
	if err != nil {
		return nil, err
	}
	blockShape64, err := readArray(descInt32Marker, 4)
	if err != nil {
		return nil, err
	}

	chunkShape := make([]int32, ndim)
	blockShape := make([]int32, ndim)
	for i := 0; i < ndim; i++ {
		chunkShape[i] = int32(chunkShape64[i])
		blockShape[i] = int32(blockShape64[i])
	}

	return &descriptor{NDim: ndim, Shape: shape, ChunkShape: chunkShape, BlockShape: blockShape}, nil
}

// String renders a human-readable summary, used by diagnostics.
func (d *descriptor) String() string {
	return fmt.Sprintf("descriptor{ndim=%d shape=%v chunkshape=%v blockshape=%v}",
		d.NDim, d.Shape, d.ChunkShape, d.BlockShape)
}

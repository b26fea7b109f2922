package tile

import (
	"context"
	"fmt"
	"math"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// ToTensor reads the whole array and wraps it as a gomlx tensor of dims
// matching Shape(), grounded on the teacher's NextBatch, whose final
// switch converts a flat Go slice plus batchShape into a *tensors.Tensor
// via tensors.FromFlatDataAndDimensions (zarr/dataset.go). itemKind
// selects which Go element type the array's bytes are reinterpreted as;
// tilearray itself is element-type agnostic (it only knows itemsize), so
// the caller names the concrete numeric type at the tensor boundary.
func ToTensor(ctx context.Context, a *Array, itemKind ItemKind) (*tensors.Tensor, error) {
	buf, err := a.ToBuffer(ctx)
	if err != nil {
		return nil, err
	}
	shape := a.Shape()
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[i] = int(d)
	}

	switch itemKind {
	case ItemFloat32:
		data, err := bytesToFloat32(buf)
		if err != nil {
			return nil, errInvalidArgument("ToTensor", "%v", err)
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case ItemInt32:
		data, err := bytesToInt32(buf)
		if err != nil {
			return nil, errInvalidArgument("ToTensor", "%v", err)
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	case ItemInt64:
		data, err := bytesToInt64(buf)
		if err != nil {
			return nil, errInvalidArgument("ToTensor", "%v", err)
		}
		return tensors.FromFlatDataAndDimensions(data, dims...), nil
	default:
		return nil, errInvalidArgument("ToTensor", "unsupported item kind %v", itemKind)
	}
}

// ItemKind names the numeric Go type an Array's raw bytes are
// reinterpreted as at the tensor boundary (spec has no notion of
// dtype — an Array only knows itemsize — so this is a tensor.go-local
// concern, not part of the core data model).
type ItemKind int

const (
	ItemFloat32 ItemKind = iota
	ItemInt32
	ItemInt64
)

func (k ItemKind) itemSize() int {
	switch k {
	case ItemFloat32, ItemInt32:
		return 4
	case ItemInt64:
		return 8
	default:
		return 0
	}
}

func bytesToFloat32(buf []byte) ([]float32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("buffer length %d not a multiple of 4", len(buf))
	}
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = float32FromLE(buf[i*4 : i*4+4])
	}
	return out, nil
}

func bytesToInt32(buf []byte) ([]int32, error) {
	if len(buf)%4 != 0 {
		return nil, fmt.Errorf("buffer length %d not a multiple of 4", len(buf))
	}
	out := make([]int32, len(buf)/4)
	for i := range out {
		out[i] = int32(uint32FromLE(buf[i*4 : i*4+4]))
	}
	return out, nil
}

func bytesToInt64(buf []byte) ([]int64, error) {
	if len(buf)%8 != 0 {
		return nil, fmt.Errorf("buffer length %d not a multiple of 8", len(buf))
	}
	out := make([]int64, len(buf)/8)
	for i := range out {
		out[i] = int64(uint64FromLE(buf[i*8 : i*8+8]))
	}
	return out, nil
}

func uint32FromLE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func uint64FromLE(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func float32FromLE(b []byte) float32 {
	return math.Float32frombits(uint32FromLE(b))
}

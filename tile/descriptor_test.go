package tile

import (
	"reflect"
	"testing"
)

func TestEncodeDescriptorExactBytes(t *testing.T) {
	// ndim=2, shape=(3,4), chunkshape=(2,2), blockshape=(1,2) — a small,
	// hand-checkable instance of spec §4.6's wire format.
	got := encodeDescriptor([]int64{3, 4}, []int64{2, 2}, []int64{1, 2})

	want := []byte{
		0x95, 0x00, 0x02, // tuple marker, version, ndim
		0x92, 0xd3, 0, 0, 0, 0, 0, 0, 0, 3, 0xd3, 0, 0, 0, 0, 0, 0, 0, 4, // shape
		0x92, 0xd2, 0, 0, 0, 2, 0xd2, 0, 0, 0, 2, // chunkshape
		0x92, 0xd2, 0, 0, 0, 1, 0xd2, 0, 0, 0, 2, // blockshape
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encodeDescriptor mismatch:\n got  %#v\n want %#v", got, want)
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	tests := []struct {
		shape, chunkShape, blockShape []int64
	}{
		{[]int64{3, 4}, []int64{2, 2}, []int64{1, 2}},
		{[]int64{}, []int64{}, []int64{}},
		{[]int64{100}, []int64{10}, []int64{5}},
		{[]int64{2, 3, 4, 5}, []int64{1, 1, 2, 2}, []int64{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		raw := encodeDescriptor(tt.shape, tt.chunkShape, tt.blockShape)
		d, err := decodeDescriptor("test", raw)
		if err != nil {
			t.Fatalf("decodeDescriptor: %v", err)
		}
		if d.NDim != len(tt.shape) {
			t.Errorf("ndim = %d, want %d", d.NDim, len(tt.shape))
		}
		if !reflect.DeepEqual(d.Shape, tt.shape) {
			t.Errorf("shape = %v, want %v", d.Shape, tt.shape)
		}
		for i := range tt.chunkShape {
			if int64(d.ChunkShape[i]) != tt.chunkShape[i] {
				t.Errorf("chunkshape[%d] = %d, want %d", i, d.ChunkShape[i], tt.chunkShape[i])
			}
			if int64(d.BlockShape[i]) != tt.blockShape[i] {
				t.Errorf("blockshape[%d] = %d, want %d", i, d.BlockShape[i], tt.blockShape[i])
			}
		}
	}
}

package tile

import (
	"reflect"
	"testing"
)

func TestStrides(t *testing.T) {
	tests := []struct {
		shape []int64
		want  []int64
	}{
		{[]int64{2, 3, 4}, []int64{12, 4, 1}},
		{[]int64{5}, []int64{1}},
		{[]int64{}, []int64{}},
	}
	for _, tt := range tests {
		got := strides(tt.shape)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("strides(%v) = %v, want %v", tt.shape, got, tt.want)
		}
	}
}

func TestLinMultiRoundTrip(t *testing.T) {
	shape := []int64{3, 4, 2}
	s := strides(shape)
	for lin := int64(0); lin < product(shape); lin++ {
		multi := make([]int64, len(shape))
		linToMulti(lin, s, multi)
		back := multiToLin(multi, s)
		if back != lin {
			t.Errorf("round trip %d -> %v -> %d", lin, multi, back)
		}
	}
}

func TestGridShape(t *testing.T) {
	tests := []struct {
		extent, tile, want []int64
	}{
		{[]int64{10, 10}, []int64{3, 5}, []int64{4, 2}},
		{[]int64{0, 10}, []int64{3, 5}, []int64{0, 2}},
	}
	for _, tt := range tests {
		got := gridShape(tt.extent, tt.tile)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("gridShape(%v, %v) = %v, want %v", tt.extent, tt.tile, got, tt.want)
		}
	}
}

func TestGridIteratorOrder(t *testing.T) {
	var got [][]int64
	err := gridIterator([]int64{2, 2}, func(coords []int64) error {
		got = append(got, append([]int64(nil), coords...))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]int64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("gridIterator order = %v, want %v", got, want)
	}
}

func TestGridIteratorEmptyAxis(t *testing.T) {
	calls := 0
	err := gridIterator([]int64{0, 3}, func(coords []int64) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Errorf("expected 0 calls for a zero-size axis, got %d", calls)
	}
}

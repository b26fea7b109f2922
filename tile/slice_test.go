package tile_test

import (
	"context"
	"testing"

	"github.com/bytewright/tilearray/internal/schunk"
	"github.com/bytewright/tilearray/tile"
)

func TestSliceGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	codec := schunk.NewCodec()
	cfg := tile.DefaultConfig()

	// 5x5 array, chunkshape 2x2: non-divisible, so the last row/column of
	// chunks is padded (spec §4.3's ragged-axis edge case).
	a, err := tile.Zeros(ctx, codec, cfg, 1, []int64{5, 5}, []int64{2, 2}, []int64{2, 2})
	if err != nil {
		t.Fatalf("Zeros: %v", err)
	}
	defer a.Close(ctx)

	full := make([]byte, 25)
	for i := range full {
		full[i] = byte(i + 1)
	}
	if err := a.SetSliceBuffer(ctx, full, []int64{0, 0}, []int64{5, 5}); err != nil {
		t.Fatalf("SetSliceBuffer(full): %v", err)
	}

	got := make([]byte, 25)
	if err := a.GetSliceBuffer(ctx, got, []int64{5, 5}, []int64{0, 0}, []int64{5, 5}); err != nil {
		t.Fatalf("GetSliceBuffer(full): %v", err)
	}
	for i := range full {
		if got[i] != full[i] {
			t.Fatalf("full round trip mismatch at %d: got %d want %d", i, got[i], full[i])
		}
	}

	// Interior sub-rectangle spanning a chunk boundary: rows 1..4, cols 1..4.
	sub := make([]byte, 3*3)
	if err := a.GetSliceBuffer(ctx, sub, []int64{3, 3}, []int64{1, 1}, []int64{4, 4}); err != nil {
		t.Fatalf("GetSliceBuffer(sub): %v", err)
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := full[(r+1)*5+(c+1)]
			if sub[r*3+c] != want {
				t.Errorf("sub[%d,%d] = %d, want %d", r, c, sub[r*3+c], want)
			}
		}
	}

	// Overwrite the sub-rectangle with a distinct pattern and confirm the
	// untouched border is preserved (full-chunk-overwrite optimization
	// must not leak into partially-covered chunks).
	patch := make([]byte, 9)
	for i := range patch {
		patch[i] = byte(100 + i)
	}
	if err := a.SetSliceBuffer(ctx, patch, []int64{1, 1}, []int64{4, 4}); err != nil {
		t.Fatalf("SetSliceBuffer(patch): %v", err)
	}
	after := make([]byte, 25)
	if err := a.GetSliceBuffer(ctx, after, []int64{5, 5}, []int64{0, 0}, []int64{5, 5}); err != nil {
		t.Fatalf("GetSliceBuffer(after): %v", err)
	}
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			idx := r*5 + c
			if r >= 1 && r < 4 && c >= 1 && c < 4 {
				want := byte(100 + (r-1)*3 + (c - 1))
				if after[idx] != want {
					t.Errorf("patched[%d,%d] = %d, want %d", r, c, after[idx], want)
				}
			} else if after[idx] != full[idx] {
				t.Errorf("border[%d,%d] = %d, want untouched %d", r, c, after[idx], full[idx])
			}
		}
	}
}

func TestSliceEmptyRangeIsNoOp(t *testing.T) {
	ctx := context.Background()
	codec := schunk.NewCodec()
	cfg := tile.DefaultConfig()

	a, err := tile.Zeros(ctx, codec, cfg, 1, []int64{4, 4}, []int64{2, 2}, []int64{2, 2})
	if err != nil {
		t.Fatalf("Zeros: %v", err)
	}
	defer a.Close(ctx)

	// start == stop on one axis: spec §4.3 says this is a no-op, not an error.
	if err := a.GetSliceBuffer(ctx, nil, []int64{0, 3}, []int64{1, 1}, []int64{1, 4}); err != nil {
		t.Fatalf("GetSliceBuffer(empty range): %v", err)
	}
	if err := a.SetSliceBuffer(ctx, nil, []int64{1, 1}, []int64{1, 4}); err != nil {
		t.Fatalf("SetSliceBuffer(empty range): %v", err)
	}
}

func TestSliceZeroSizedAxis(t *testing.T) {
	ctx := context.Background()
	codec := schunk.NewCodec()
	cfg := tile.DefaultConfig()

	// A zero-extent axis is a degenerate but legal shape (spec §4.3 edge case).
	a, err := tile.Zeros(ctx, codec, cfg, 1, []int64{0, 4}, []int64{2, 2}, []int64{2, 2})
	if err != nil {
		t.Fatalf("Zeros with zero-sized axis: %v", err)
	}
	defer a.Close(ctx)

	if err := a.GetSliceBuffer(ctx, nil, []int64{0, 4}, []int64{0, 0}, []int64{0, 4}); err != nil {
		t.Fatalf("GetSliceBuffer over zero-sized axis: %v", err)
	}
}

func TestSlice0D(t *testing.T) {
	ctx := context.Background()
	codec := schunk.NewCodec()
	cfg := tile.DefaultConfig()

	a, err := tile.Zeros(ctx, codec, cfg, 4, nil, nil, nil)
	if err != nil {
		t.Fatalf("Zeros 0D: %v", err)
	}
	defer a.Close(ctx)

	in := []byte{1, 2, 3, 4}
	if err := a.SetSliceBuffer(ctx, in, nil, nil); err != nil {
		t.Fatalf("SetSliceBuffer 0D: %v", err)
	}
	out := make([]byte, 4)
	if err := a.GetSliceBuffer(ctx, out, nil, nil, nil); err != nil {
		t.Fatalf("GetSliceBuffer 0D: %v", err)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("0D round trip[%d] = %d, want %d", i, out[i], in[i])
		}
	}
}

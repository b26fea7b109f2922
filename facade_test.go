package tilearray_test

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	tilearray "github.com/bytewright/tilearray"
	"github.com/stretchr/testify/require"
)

func float32Bytes(v float32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return b
}

func TestEmptyAndRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := tilearray.DefaultConfig()

	a, err := tilearray.Zeros(ctx, cfg, 4, []int64{4, 4}, []int64{2, 2}, []int64{2, 2})
	require.NoError(t, err)
	defer a.Close(ctx)

	buf := make([]byte, 4*4*4)
	for i := 0; i < 16; i++ {
		copy(buf[i*4:i*4+4], float32Bytes(float32(i)))
	}
	require.NoError(t, a.FromBuffer(ctx, buf))

	out, err := a.ToBuffer(ctx)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestFullAndMetadataRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := tilearray.DefaultConfig()

	val := float32Bytes(3.5)
	a, err := tilearray.Full(ctx, cfg, 4, []int64{3, 3}, []int64{2, 2}, []int64{1, 1}, val)
	require.NoError(t, err)
	defer a.Close(ctx)

	out, err := a.ToBuffer(ctx)
	require.NoError(t, err)
	for i := 0; i < len(out); i += 4 {
		require.Equal(t, val, out[i:i+4])
	}

	require.NoError(t, a.MetaAdd("units", []byte("meters")))
	got, ok := a.MetaGet("units")
	require.True(t, ok)
	require.Equal(t, []byte("meters"), got)

	require.NoError(t, a.MetaUpdate("units", []byte("feet!!")))
	got, ok = a.MetaGet("units")
	require.True(t, ok)
	require.Equal(t, []byte("feet!!"), got)
}

func TestSerializeRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := tilearray.DefaultConfig()

	a, err := tilearray.Zeros(ctx, cfg, 8, []int64{6}, []int64{3}, []int64{3})
	require.NoError(t, err)

	buf := make([]byte, 6*8)
	for i := range buf {
		buf[i] = byte(i + 1)
	}
	require.NoError(t, a.FromBuffer(ctx, buf))

	data, err := a.Serialize(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Close(ctx))

	cfg = cfg.WithItemSize(8)
	restored, err := tilearray.FromSerialized(ctx, cfg, data)
	require.NoError(t, err)
	defer restored.Close(ctx)

	out, err := restored.ToBuffer(ctx)
	require.NoError(t, err)
	require.Equal(t, buf, out)
}

func TestResizeShrinkThenExtend(t *testing.T) {
	ctx := context.Background()
	cfg := tilearray.DefaultConfig()

	a, err := tilearray.Zeros(ctx, cfg, 1, []int64{6}, []int64{2}, []int64{2})
	require.NoError(t, err)
	defer a.Close(ctx)

	buf := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, a.FromBuffer(ctx, buf))

	require.NoError(t, tilearray.Resize(ctx, a, cfg, []int64{3}))
	out, err := a.ToBuffer(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, out)

	require.NoError(t, tilearray.Resize(ctx, a, cfg, []int64{6}))
	out, err = a.ToBuffer(ctx)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0}, out)
}

func TestSqueeze(t *testing.T) {
	ctx := context.Background()
	cfg := tilearray.DefaultConfig()

	a, err := tilearray.Zeros(ctx, cfg, 4, []int64{1, 5}, []int64{1, 5}, []int64{1, 5})
	require.NoError(t, err)
	defer a.Close(ctx)

	require.Equal(t, 2, a.NDim())
	require.NoError(t, a.Squeeze())
	require.Equal(t, 1, a.NDim())
	require.Equal(t, []int64{5}, a.Shape())
}

package tilearray

import (
	"context"

	"github.com/bytewright/tilearray/internal/schunk"
	"github.com/bytewright/tilearray/tile"
	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Array, Config, StorageOptions, Metalayer, FillPolicy, CompressorID,
// SplitMode and ItemKind are re-exported verbatim: tile owns every
// method and every invariant, this package only owns which Codec gets
// threaded through by default.
type (
	Array           = tile.Array
	Config          = tile.Config
	StorageOptions  = tile.StorageOptions
	Metalayer       = tile.Metalayer
	FillPolicy      = tile.FillPolicy
	CompressorID    = tile.CompressorID
	SplitMode       = tile.SplitMode
	ItemKind        = tile.ItemKind
	Allocator       = tile.Allocator
	PrefilterFunc   = tile.PrefilterFunc
	Codec           = tile.Codec
	Container       = tile.Container
)

const (
	FillZero          = tile.FillZero
	FillUninitialized = tile.FillUninitialized

	CodecZstd  = tile.CodecZstd
	CodecBlosc = tile.CodecBlosc

	AutoSplit   = tile.AutoSplit
	NeverSplit  = tile.NeverSplit
	AlwaysSplit = tile.AlwaysSplit

	ItemFloat32 = tile.ItemFloat32
	ItemInt32   = tile.ItemInt32
	ItemInt64   = tile.ItemInt64
)

// DefaultConfig returns tile.DefaultConfig(), unmodified.
func DefaultConfig() Config { return tile.DefaultConfig() }

// defaultCodec is the package-level schunk.Codec every facade
// constructor threads through in place of requiring callers to build
// one themselves.
var defaultCodec = schunk.NewCodec()

// Empty, Zeros, Full, FromBuffer, FromSerialized and Open are tile's
// constructors of the same name with defaultCodec supplied, per spec
// §4.7.
func Empty(ctx context.Context, cfg Config, itemSize int, shape, chunkShape, blockShape []int64) (*Array, error) {
	return tile.Empty(ctx, defaultCodec, cfg, itemSize, shape, chunkShape, blockShape)
}

func Zeros(ctx context.Context, cfg Config, itemSize int, shape, chunkShape, blockShape []int64) (*Array, error) {
	return tile.Zeros(ctx, defaultCodec, cfg, itemSize, shape, chunkShape, blockShape)
}

func Full(ctx context.Context, cfg Config, itemSize int, shape, chunkShape, blockShape []int64, value []byte) (*Array, error) {
	return tile.Full(ctx, defaultCodec, cfg, itemSize, shape, chunkShape, blockShape, value)
}

func FromBuffer(ctx context.Context, cfg Config, itemSize int, shape, chunkShape, blockShape []int64, buf []byte) (*Array, error) {
	return tile.FromBuffer(ctx, defaultCodec, cfg, itemSize, shape, chunkShape, blockShape, buf)
}

func FromSerialized(ctx context.Context, cfg Config, data []byte) (*Array, error) {
	return tile.FromSerialized(ctx, defaultCodec, cfg, data)
}

func Open(ctx context.Context, cfg Config, urlpath string) (*Array, error) {
	return tile.Open(ctx, defaultCodec, cfg, urlpath)
}

// Copy is tile.Copy with defaultCodec supplied.
func Copy(ctx context.Context, cfg Config, src *Array, newChunkShape, newBlockShape []int64) (*Array, error) {
	return tile.Copy(ctx, defaultCodec, cfg, src, newChunkShape, newBlockShape)
}

// Resize is Array.Resize with defaultCodec supplied.
func Resize(ctx context.Context, a *Array, cfg Config, newShape []int64) error {
	return a.Resize(ctx, defaultCodec, cfg, newShape)
}

// FromContainer is tile.FromContainer, re-exported unchanged (it needs
// no Codec: the Container is already open).
func FromContainer(ctx context.Context, cfg Config, c Container) (*Array, error) {
	return tile.FromContainer(ctx, cfg, c)
}

// Remove is tile.Remove with defaultCodec supplied.
func Remove(ctx context.Context, urlpath string) error {
	return tile.Remove(ctx, defaultCodec, urlpath)
}

// ToTensor is tile.ToTensor, re-exported unchanged.
func ToTensor(ctx context.Context, a *Array, kind ItemKind) (*tensors.Tensor, error) {
	return tile.ToTensor(ctx, a, kind)
}

package tile

// MaxDim is the compile-time maximum number of axes an Array may have.
// Axes beyond ndim, up to MaxDim, are implicitly of extent 1.
const MaxDim = 8

// MaxFilters bounds the filter pipeline, mirroring BLOSC2_MAX_FILTERS in
// the collaborator this library was designed against.
const MaxFilters = 6

// DescriptorMetaName is the reserved fixed-metadata name carrying the
// dimension descriptor sidecar (spec §3/§4.6). It is also the on-disk
// metalayer name a blosc2-based container would recognize, kept as-is
// for interop rather than renamed to something tilearray-specific.
const DescriptorMetaName = "caterva"

// CompressorID selects the codec used to compress newly written chunks.
type CompressorID uint8

const (
	// CodecZstd compresses with klauspost/compress/zstd. This is the
	// only compressor internal/schunk's default Codec can *write*.
	CodecZstd CompressorID = iota
	// CodecBlosc is accepted only when opening a pre-existing container
	// written by a foreign blosc-based tool; internal/schunk has no
	// blosc encoder and refuses CodecBlosc on constructors that write.
	CodecBlosc
)

// SplitMode mirrors the collaborator's block-splitting strategy knob.
// tilearray's own codec ignores it, since it has no internal
// block-splitting heuristic of its own to switch between — the option is
// threaded through so a future Codec implementation (or a real blosc2
// binding) can honor it fully.
type SplitMode uint8

const (
	AutoSplit SplitMode = iota
	NeverSplit
	AlwaysSplit
)

// FillPolicy resolves the spec's "Empty advertises uninitialized values
// but the source always substitutes zero" ambiguity (see DESIGN.md).
type FillPolicy uint8

const (
	// FillZero guarantees every element of a freshly allocated chunk
	// reads back as the zero value. Default.
	FillZero FillPolicy = iota
	// FillUninitialized permits (but does not require) the Codec to
	// leave freshly allocated chunk bytes unspecified.
	FillUninitialized
)

// Allocator is the pluggable allocation capability of spec §6's
// alloc/free configuration pair. A systems language with a sum-type
// error channel and GC has little use for a malloc/free pair globally,
// so this is modeled as a capability passed to constructors rather than
// a package-level hook; most callers use DefaultAllocator.
type Allocator interface {
	Alloc(n int) []byte
	Free(buf []byte)
}

type defaultAllocator struct{}

func (defaultAllocator) Alloc(n int) []byte { return make([]byte, n) }
func (defaultAllocator) Free([]byte)        {}

// DefaultAllocator delegates to the Go runtime allocator and GC; Free is
// a no-op, matching how every caller in the pack that doesn't actually
// need an arena just lets the garbage collector reclaim byte slices.
var DefaultAllocator Allocator = defaultAllocator{}

// Metalayer is a fixed-metadata entry created at construction time,
// alongside the reserved DescriptorMetaName entry.
type Metalayer struct {
	Name string
	Data []byte
}

// StorageOptions controls how an Array's container is persisted.
type StorageOptions struct {
	// URLPath is a gocloud.dev/blob bucket URL (e.g. "file:///data/x",
	// "s3://bucket/prefix", "mem://"). Empty means in-memory only.
	URLPath string
	// Sequential requests a single contiguous frame representation
	// instead of a sparse one-object-per-chunk layout, when the backing
	// Codec supports the distinction (internal/schunk does).
	Sequential bool
}

// Config bundles every configuration option from spec §6's table.
type Config struct {
	Alloc Allocator

	CompCodec  CompressorID
	CompMeta   uint8
	CompLevel  uint8
	SplitMode  SplitMode
	UseDict    bool
	NThreads   int
	Filters    []uint8
	FilterMeta []uint8

	Prefilter       PrefilterFunc
	PrefilterParams any
	TuningParams    any

	FillPolicy FillPolicy

	Storage    StorageOptions
	Metalayers []Metalayer

	// CacheBytes enables internal/schunk's decompressed-chunk cache when
	// backing this Array, bounding it to approximately this many bytes
	// of cached payload. Zero disables caching.
	CacheBytes int64

	// itemSize records the element width for constructors that adopt an
	// existing Container (FromContainer/FromSerialized/Open), whose
	// descriptor sidecar does not itself carry itemsize. Set via
	// Config.WithItemSize; defaults to 1 when unset.
	itemSize int
}

// PrefilterFunc is an optional pre-compression transform of a chunk's
// bytes. Config carries it through to the Codec; the bundled
// internal/schunk Codec does not apply it and compresses chunk bytes
// unchanged.
type PrefilterFunc func(chunk []byte) []byte

// DefaultConfig returns the configuration spec §6 documents as the
// baseline: zstd compression, level 5, a single compression thread, no
// dictionary, auto split, FillZero, and no persistence.
func DefaultConfig() Config {
	return Config{
		Alloc:      DefaultAllocator,
		CompCodec:  CodecZstd,
		CompLevel:  5,
		SplitMode:  AutoSplit,
		NThreads:   1,
		Filters:    []uint8{0, 0, 0, 0, 0, 1},
		FilterMeta: make([]uint8, MaxFilters),
		FillPolicy: FillZero,
	}
}

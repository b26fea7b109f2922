package tile

import "context"

// FillKind selects the special, all-same-value chunk representation used
// by AppendSpecial (spec §6's fill_special kind ∈ {ZERO, UNINIT}).
type FillKind uint8

const (
	FillKindZero FillKind = iota
	FillKindUninit
)

// Container is the narrow interface this library consumes from the
// block-oriented compression codec (spec §6's "super-chunk" collaborator).
// tilearray never reaches inside a Container; every structural operation
// on an Array goes through these methods. internal/schunk is the bundled
// default implementation; any other implementation satisfying Container
// plugs in without changes to tile/array.go, slice.go, copy.go, or
// mutate.go.
type Container interface {
	// NChunks reports how many chunks are currently stored.
	NChunks() int

	// UpdateChunk replaces (or, if replace is false, appends) the chunk
	// at idx with already-compressed bytes.
	UpdateChunk(ctx context.Context, idx int, compressed []byte, replace bool) error

	// DecompressChunk decompresses chunk idx into out, which must be
	// exactly extChunkNItems*itemSize bytes. Blocks whose flag in mask is
	// true are permitted (not required) to be left untouched in out;
	// mask may be nil, meaning every block must be materialized.
	DecompressChunk(ctx context.Context, idx int, out []byte, mask []bool) error

	// CompressChunk compresses raw chunk bytes using the container's
	// configured codec/level/filters, returning the compressed frame
	// ready for UpdateChunk.
	CompressChunk(ctx context.Context, raw []byte) ([]byte, error)

	// RepeatValueChunk produces a single compressed chunk representing
	// nBytes/itemSize back-to-back copies of value (spec's
	// chunk_repeat_value), without materializing the uncompressed form.
	RepeatValueChunk(nBytes, itemSize int, value []byte) ([]byte, error)

	// AppendSpecial appends nChunks whole chunks of chunkNItems items
	// each as one of the special same-value representations, without ever
	// materializing the full uncompressed payload.
	AppendSpecial(ctx context.Context, kind FillKind, nChunks int, chunkNItems int64, itemSize int) error

	// Truncate drops every chunk at index >= n from the container.
	Truncate(ctx context.Context, n int) error

	// Copy duplicates every stored chunk verbatim into a new Container
	// persisted per storage. Used by Array.Copy's fast path.
	Copy(ctx context.Context, storage StorageOptions) (Container, error)

	// ToBytes serializes the whole container to an in-memory frame
	// suitable for ContainerFromBytes.
	ToBytes(ctx context.Context) ([]byte, error)

	// Close releases resources. If the container is persisted at a
	// urlpath, Close does not delete it.
	Close(ctx context.Context) error

	MetaAdd(name string, data []byte) error
	MetaGet(name string) ([]byte, bool)
	MetaExists(name string) bool
	MetaUpdate(name string, data []byte) error

	VLMetaAdd(name string, data []byte) error
	VLMetaGet(name string) ([]byte, bool)
	VLMetaExists(name string) bool
	VLMetaUpdate(name string, data []byte) error

	// MetaNames lists every fixed-metadata entry name, in insertion
	// order, for Copy's "carry every named entry across" requirement.
	MetaNames() []string
	// VLMetaNames lists every variable-length metadata entry name, in
	// insertion order, for the same reason.
	VLMetaNames() []string
}

// Codec constructs and opens Containers. It is the factory half of the
// collaborator interface; Container is the per-array handle half.
type Codec interface {
	// NewContainer allocates a fresh, empty container per cfg.
	NewContainer(ctx context.Context, cfg Config) (Container, error)
	// OpenContainer opens a container previously persisted at urlpath.
	OpenContainer(ctx context.Context, urlpath string) (Container, error)
	// ContainerFromBytes deserializes a container from a ToBytes frame.
	ContainerFromBytes(ctx context.Context, data []byte) (Container, error)
	// RemoveURLPath deletes a persisted container's backing storage. It
	// does not affect any already-open handle.
	RemoveURLPath(ctx context.Context, urlpath string) error
}

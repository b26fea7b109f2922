package schunk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
)

const (
	sequentialKey = "container.bin"
	metaKey       = "meta.json"
	chunkPrefix   = "chunks/"
)

// wireMeta is the JSON envelope for a container's metadata namespaces
// and bookkeeping, grounded on the teacher's own choice of
// encoding/json for its .zarray sidecar (zarr/metadata.go) rather than a
// binary serialization library.
type wireMeta struct {
	CompressorID uint8             `json:"compressor_id"`
	NChunks      int               `json:"nchunks"`
	FixedNames   []string          `json:"fixed_names"`
	FixedData    map[string][]byte `json:"fixed_data"`
	VLNames      []string          `json:"vl_names"`
	VLData       map[string][]byte `json:"vl_data"`
}

// blobStore persists a container through a gocloud.dev/blob.Bucket,
// grounded on the teacher's Reader/Dataset (both wrap *blob.Bucket;
// reader.go's NewReader opens the bucket via blob.OpenBucket and checks
// gcerrors.Code(err) == gcerrors.NotFound the same way this package
// does). Sequential writes the whole container as one frame
// (StorageOptions.Sequential); otherwise each chunk is its own blob
// object under "chunks/<idx>", mirroring the teacher's one-object-
// per-chunk Zarr layout (zarr's dotted ChunkKey, simplified to a plain
// decimal index since Container addresses chunks linearly).
type blobStore struct {
	bucket     *blob.Bucket
	sequential bool
}

func openBlobStore(ctx context.Context, urlpath string, sequential bool) (*blobStore, error) {
	bucket, err := blob.OpenBucket(ctx, urlpath)
	if err != nil {
		return nil, fmt.Errorf("open bucket %q: %w", urlpath, err)
	}
	return &blobStore{bucket: bucket, sequential: sequential}, nil
}

func (s *blobStore) close() error {
	return s.bucket.Close()
}

// persist writes the full in-memory state of c to the backing bucket.
func (s *blobStore) persist(ctx context.Context, c *container) error {
	meta := wireMeta{
		CompressorID: uint8(c.compressorID),
		NChunks:      len(c.chunks),
		FixedNames:   append([]string(nil), c.fixed.names...),
		FixedData:    c.fixed.snapshot(),
		VLNames:      append([]string(nil), c.vl.names...),
		VLData:       c.vl.snapshot(),
	}

	if s.sequential {
		wc := wireContainer{Meta: meta, Chunks: c.chunks}
		data, err := json.Marshal(wc)
		if err != nil {
			return fmt.Errorf("marshal container: %w", err)
		}
		return s.bucket.WriteAll(ctx, sequentialKey, data, nil)
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	if err := s.bucket.WriteAll(ctx, metaKey, data, nil); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	for idx, chunkBlob := range c.chunks {
		key := chunkPrefix + strconv.Itoa(idx)
		if err := s.bucket.WriteAll(ctx, key, chunkBlob, nil); err != nil {
			return fmt.Errorf("write chunk %d: %w", idx, err)
		}
	}
	return s.pruneChunksBeyond(ctx, len(c.chunks))
}

// pruneChunksBeyond deletes every "chunks/<idx>" object with idx >= n,
// used after Truncate in the sparse layout.
func (s *blobStore) pruneChunksBeyond(ctx context.Context, n int) error {
	iter := s.bucket.List(&blob.ListOptions{Prefix: chunkPrefix})
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list chunks: %w", err)
		}
		idxStr := strings.TrimPrefix(obj.Key, chunkPrefix)
		idx, err := strconv.Atoi(idxStr)
		if err != nil {
			continue
		}
		if idx >= n {
			if err := s.bucket.Delete(ctx, obj.Key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
				return fmt.Errorf("delete chunk %d: %w", idx, err)
			}
		}
	}
}

// load reconstructs a container's in-memory state from the bucket.
func (s *blobStore) load(ctx context.Context) (*container, error) {
	if s.sequential {
		data, err := s.bucket.ReadAll(ctx, sequentialKey)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sequentialKey, err)
		}
		var wc wireContainer
		if err := json.Unmarshal(data, &wc); err != nil {
			return nil, fmt.Errorf("unmarshal container: %w", err)
		}
		return containerFromWire(wc.Meta, wc.Chunks), nil
	}

	data, err := s.bucket.ReadAll(ctx, metaKey)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", metaKey, err)
	}
	var meta wireMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}

	chunks := make([][]byte, meta.NChunks)
	for idx := 0; idx < meta.NChunks; idx++ {
		key := chunkPrefix + strconv.Itoa(idx)
		blob, err := s.bucket.ReadAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read chunk %d: %w", idx, err)
		}
		chunks[idx] = blob
	}
	return containerFromWire(meta, chunks), nil
}

// removeURLPath deletes every object at urlpath, the backing
// implementation of tile.Codec.RemoveURLPath.
func removeURLPath(ctx context.Context, urlpath string) error {
	bucket, err := blob.OpenBucket(ctx, urlpath)
	if err != nil {
		return fmt.Errorf("open bucket %q: %w", urlpath, err)
	}
	defer bucket.Close()

	iter := bucket.List(nil)
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list %q: %w", urlpath, err)
		}
		if err := bucket.Delete(ctx, obj.Key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
			return fmt.Errorf("delete %q: %w", obj.Key, err)
		}
	}
}

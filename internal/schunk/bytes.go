package schunk

import (
	"encoding/json"
	"fmt"

	"github.com/bytewright/tilearray/tile"
)

// wireContainer is the ToBytes/ContainerFromBytes frame: every chunk
// envelope plus both metadata namespaces, JSON-encoded the way the
// teacher encodes its own .zarray sidecar (zarr/metadata.go) — chunk
// envelopes and metadata values are raw []byte fields, which
// encoding/json transparently base64-encodes.
type wireContainer struct {
	Meta   wireMeta `json:"meta"`
	Chunks [][]byte `json:"chunks"`
}

// toBytesLocked serializes the container's full in-memory state. Called
// with c.mu held.
func (c *container) toBytesLocked() ([]byte, error) {
	wc := wireContainer{
		Meta: wireMeta{
			CompressorID: uint8(c.compressorID),
			NChunks:      len(c.chunks),
			FixedNames:   append([]string(nil), c.fixed.names...),
			FixedData:    c.fixed.snapshot(),
			VLNames:      append([]string(nil), c.vl.names...),
			VLData:       c.vl.snapshot(),
		},
		Chunks: c.chunks,
	}
	data, err := json.Marshal(wc)
	if err != nil {
		return nil, fmt.Errorf("marshal container: %w", err)
	}
	return data, nil
}

// containerFromBytes deserializes a ToBytes frame into a fresh in-memory
// container, with no backing blobStore.
func containerFromBytes(data []byte) (*container, error) {
	var wc wireContainer
	if err := json.Unmarshal(data, &wc); err != nil {
		return nil, fmt.Errorf("unmarshal container: %w", err)
	}
	return containerFromWire(wc.Meta, wc.Chunks), nil
}

// containerFromWire rebuilds a container's in-memory state from a
// decoded wireMeta plus its chunk envelopes.
func containerFromWire(meta wireMeta, chunks [][]byte) *container {
	c := &container{
		compressorID: tile.CompressorID(meta.CompressorID),
		chunks:       chunks,
		fixed:        newMetaTableFrom(meta.FixedNames, meta.FixedData),
		vl:           newMetaTableFrom(meta.VLNames, meta.VLData),
	}
	return c
}

package schunk

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/mrjoshuak/go-blosc"
)

// envelope kinds: the first byte of every chunk blob this package ever
// hands to tile.Container.UpdateChunk, so DecompressChunk can dispatch
// without having to ask a producer what it made.
const (
	envZstd byte = iota
	envRepeat
	envBlosc // read-only: a chunk adopted from a foreign blosc-compressed container
)

// encodeZstd compresses raw with klauspost/compress/zstd at the given
// speed level and wraps it in the envZstd envelope.
func encodeZstd(raw []byte, level zstd.EncoderLevel) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("zstd encoder: %w", err)
	}
	defer enc.Close()
	payload := enc.EncodeAll(raw, make([]byte, 0, len(raw)))
	out := make([]byte, 1+len(payload))
	out[0] = envZstd
	copy(out[1:], payload)
	return out, nil
}

// encodeRepeat wraps pattern (itemsize bytes) in the envRepeat envelope,
// the chunk_repeat_value representation that never materializes the full
// chunk payload.
func encodeRepeat(pattern []byte) []byte {
	out := make([]byte, 1+len(pattern))
	out[0] = envRepeat
	copy(out[1:], pattern)
	return out
}

// decodeChunk expands an envelope produced by encodeZstd/encodeRepeat (or
// adopted as envBlosc) into exactly len(out) bytes, by repeating the
// pattern (envRepeat) or decompressing the payload (envZstd/envBlosc).
// The repeat pattern's own length is the item size; no separate
// parameter is needed.
func decodeChunk(blob []byte, out []byte) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty chunk blob")
	}
	switch blob[0] {
	case envRepeat:
		pattern := blob[1:]
		if len(pattern) == 0 {
			return fmt.Errorf("empty repeat pattern")
		}
		if len(out)%len(pattern) != 0 {
			return fmt.Errorf("output length %d not a multiple of pattern length %d", len(out), len(pattern))
		}
		for off := 0; off+len(pattern) <= len(out); off += len(pattern) {
			copy(out[off:off+len(pattern)], pattern)
		}
		return nil
	case envZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		decoded, err := dec.DecodeAll(blob[1:], make([]byte, 0, len(out)))
		if err != nil {
			return fmt.Errorf("zstd decode: %w", err)
		}
		if len(decoded) != len(out) {
			return fmt.Errorf("decoded chunk length %d != expected %d", len(decoded), len(out))
		}
		copy(out, decoded)
		return nil
	case envBlosc:
		decoded, err := blosc.Decompress(blob[1:])
		if err != nil {
			return fmt.Errorf("blosc decode: %w", err)
		}
		if len(decoded) != len(out) {
			return fmt.Errorf("decoded chunk length %d != expected %d", len(decoded), len(out))
		}
		copy(out, decoded)
		return nil
	default:
		return fmt.Errorf("unknown chunk envelope kind %d", blob[0])
	}
}

// zstdLevel maps the blosc-style 0-9 compression level this library's
// Config.CompLevel exposes onto klauspost/compress/zstd's four speed
// tiers, the way the teacher's own Metadata.Compressor.Clevel (an
// integer scale) is an approximation of a smaller underlying enum.
func zstdLevel(level uint8) zstd.EncoderLevel {
	switch {
	case level == 0:
		return zstd.SpeedFastest
	case level <= 3:
		return zstd.SpeedDefault
	case level <= 6:
		return zstd.SpeedBetterCompression
	default:
		return zstd.SpeedBestCompression
	}
}

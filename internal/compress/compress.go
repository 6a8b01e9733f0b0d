package compress

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type defines the compression algorithm used.
type Type uint8

const (
	// None indicates no compression.
	None Type = 0
	// LZ4 indicates LZ4 frame compression (fast, good for hot data).
	LZ4 Type = 1
	// ZSTD indicates Zstandard compression (better ratio, good for cold data).
	ZSTD Type = 2
)

// String returns the canonical name of t.
func (t Type) String() string {
	switch t {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case ZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compress(%d)", uint8(t))
	}
}

// Ext returns the file suffix for t, including the dot. None has no suffix.
func (t Type) Ext() string {
	switch t {
	case LZ4:
		return ".lz4"
	case ZSTD:
		return ".zst"
	default:
		return ""
	}
}

// Parse maps a name ("none", "lz4", "zstd") to a Type.
func Parse(name string) (Type, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd", "zst":
		return ZSTD, nil
	default:
		return None, fmt.Errorf("compress: unknown algorithm %q", name)
	}
}

// FromName inspects a file name and returns the compression implied by its
// suffix together with the name stripped of that suffix.
func FromName(name string) (Type, string) {
	switch {
	case strings.HasSuffix(name, ".zst"):
		return ZSTD, strings.TrimSuffix(name, ".zst")
	case strings.HasSuffix(name, ".zstd"):
		return ZSTD, strings.TrimSuffix(name, ".zstd")
	case strings.HasSuffix(name, ".lz4"):
		return LZ4, strings.TrimSuffix(name, ".lz4")
	default:
		return None, name
	}
}

// NewReader wraps r so that reads return decompressed bytes.
// The returned ReadCloser must be closed; it does not close r.
func NewReader(r io.Reader, t Type) (io.ReadCloser, error) {
	switch t {
	case None:
		return io.NopCloser(r), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case ZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return dec.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("compress: unsupported type %s", t)
	}
}

// NewWriter wraps w so that written bytes are compressed.
// Close flushes the frame; it does not close w.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case None:
		return nopWriteCloser{w}, nil
	case LZ4:
		return lz4.NewWriter(w), nil
	case ZSTD:
		// Level 3 balances compression ratio vs speed
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	default:
		return nil, fmt.Errorf("compress: unsupported type %s", t)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

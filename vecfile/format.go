package vecfile

import (
	"path"
	"strings"
)

// MaxDim bounds the dimension accepted from a record header, so that a
// corrupt header cannot trigger a huge allocation.
const MaxDim = 1 << 20

const headerSize = 4

// Format identifies a vector file layout.
type Format int

const (
	// FormatUnknown is returned for unrecognized extensions.
	FormatUnknown Format = iota
	// Fvecs holds float32 vectors.
	Fvecs
	// Ivecs holds int32 vectors, typically ground-truth ids.
	Ivecs
	// Bvecs holds uint8 vectors.
	Bvecs
)

// String returns the file extension without the dot.
func (f Format) String() string {
	switch f {
	case Fvecs:
		return "fvecs"
	case Ivecs:
		return "ivecs"
	case Bvecs:
		return "bvecs"
	default:
		return "unknown"
	}
}

// ElemSize returns the payload element size in bytes.
func (f Format) ElemSize() int {
	if f == Bvecs {
		return 1
	}
	return 4
}

// FormatFromName returns the format implied by a file name's extension.
// Compression suffixes must be stripped first.
func FormatFromName(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".fvecs":
		return Fvecs
	case ".ivecs":
		return Ivecs
	case ".bvecs":
		return Bvecs
	default:
		return FormatUnknown
	}
}

func formatOf[T Element]() Format {
	var zero T
	switch any(zero).(type) {
	case float32:
		return Fvecs
	case int32:
		return Ivecs
	default:
		return Bvecs
	}
}

func elemSize[T Element]() int {
	return formatOf[T]().ElemSize()
}

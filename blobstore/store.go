package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is matched (via errors.Is) by the error a Store returns for a
// missing dataset or report.
var ErrNotFound = os.ErrNotExist

// Store holds datasets and reports by name.
type Store interface {
	// Open streams the named blob.
	Open(ctx context.Context, name string) (Blob, error)

	// Put stores data under name. Readers see either the old or the new content.
	Put(ctx context.Context, name string, data []byte) error
}

// Blob is an open dataset or report.
type Blob interface {
	io.ReadCloser
	// Size is the stored (possibly compressed) length in bytes.
	Size() int64
}

// Mappable is implemented by blobs whose bytes are already addressable,
// letting decoders skip the copy through Read.
type Mappable interface {
	// Bytes returns the content. The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

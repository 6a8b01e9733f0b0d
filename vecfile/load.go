package vecfile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/internal/compress"
)

// Load reads the named blob from store. A .zst or .lz4 suffix selects
// decompression; uncompressed blobs that are already in memory (local mmap,
// MemoryStore) are decoded without an extra copy.
func Load[T Element](ctx context.Context, store blobstore.Store, name string, opts ...Option) (*Matrix[T], error) {
	comp, base := compress.FromName(name)
	if err := checkExt[T](name, base); err != nil {
		return nil, err
	}

	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("vecfile: open %s: %w", name, err)
	}
	defer blob.Close()

	o := newOptions(opts)

	if comp == compress.None {
		if m, ok := blob.(blobstore.Mappable); ok {
			if b, err := m.Bytes(); err == nil {
				o.sizeHint = int64(len(b))
				return read[T](bytes.NewReader(b), o)
			}
		}
		o.sizeHint = blob.Size()
	}

	var r io.Reader = &ctxReader{ctx: ctx, r: blob}
	if o.wrap != nil {
		r = o.wrap(r)
	}

	zr, err := compress.NewReader(r, comp)
	if err != nil {
		return nil, fmt.Errorf("vecfile: %s: %w", name, err)
	}
	defer zr.Close()

	return read[T](zr, o)
}

// Open reads a local vector file; see Load.
func Open[T Element](ctx context.Context, path string, opts ...Option) (*Matrix[T], error) {
	return Load[T](ctx, blobstore.NewLocalStore(filepath.Dir(path)), filepath.Base(path), opts...)
}

// Save encodes m and writes it to store, compressing according to the name's suffix.
func Save[T Element](ctx context.Context, store blobstore.Store, name string, m *Matrix[T]) error {
	comp, base := compress.FromName(name)
	if err := checkExt[T](name, base); err != nil {
		return err
	}

	var buf bytes.Buffer
	zw, err := compress.NewWriter(&buf, comp)
	if err != nil {
		return err
	}
	if err := Write(zw, m); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return store.Put(ctx, name, buf.Bytes())
}

func checkExt[T Element](name, base string) error {
	want := formatOf[T]()
	if got := FormatFromName(base); got != FormatUnknown && got != want {
		return &FormatError{Format: want, Reason: fmt.Sprintf("%s holds %s data", name, got)}
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

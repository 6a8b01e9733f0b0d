package report

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/codec"
)

// DefaultPrefix is the key prefix BlobSink writes under.
const DefaultPrefix = "reports/"

// BlobSink stores each report as one encoded document in a blobstore.
type BlobSink struct {
	store  blobstore.Store
	codec  codec.Codec
	prefix string
}

// BlobOption configures a BlobSink.
type BlobOption func(*BlobSink)

// WithCodec sets the report codec. Default is codec.Default.
func WithCodec(c codec.Codec) BlobOption {
	return func(s *BlobSink) { s.codec = c }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) BlobOption {
	return func(s *BlobSink) { s.prefix = prefix }
}

// NewBlobSink creates a BlobSink writing to store.
func NewBlobSink(store blobstore.Store, opts ...BlobOption) *BlobSink {
	s := &BlobSink{store: store, codec: codec.Default, prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns "blob".
func (s *BlobSink) Name() string { return "blob" }

// Key returns the blob name r is stored under.
func (s *BlobSink) Key(r *Report) string {
	return fmt.Sprintf("%s%s-%s.json", s.prefix, keySafe(r.Experiment), r.RunAt.UTC().Format("20060102T150405.000Z"))
}

// Write encodes r and puts it into the store.
func (s *BlobSink) Write(ctx context.Context, r *Report) error {
	data, err := s.codec.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return s.store.Put(ctx, s.Key(r), data)
}

// Read loads a report previously written under key.
func (s *BlobSink) Read(ctx context.Context, key string) (*Report, error) {
	blob, err := s.store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	buf, err := io.ReadAll(blob)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := s.codec.Unmarshal(buf, &r); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", key, err)
	}
	return &r, nil
}

func keySafe(name string) string {
	if name == "" {
		return "experiment"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, name)
}

package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sync/singleflight"
)

// CachingStore serves blobs of a remote Store from a local directory.
//
// The first Open of a name downloads the whole blob into the cache; later
// opens, including those of other processes sharing the directory, map the
// local copy. Concurrent opens of the same name share one download.
type CachingStore struct {
	inner Store
	cache *LocalStore
	group singleflight.Group
}

// NewCachingStore wraps inner with a cache rooted at cache.
func NewCachingStore(inner Store, cache *LocalStore) *CachingStore {
	return &CachingStore{inner: inner, cache: cache}
}

// Open returns the cached copy of name, fetching it from the inner store first
// if needed.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.cache.Open(ctx, name)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err, _ = s.group.Do(name, func() (any, error) {
		return nil, s.fill(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return s.cache.Open(ctx, name)
}

func (s *CachingStore) fill(ctx context.Context, name string) error {
	src, err := s.inner.Open(ctx, name)
	if err != nil {
		return err
	}
	defer src.Close()

	// A short body must fail the copy so the partial file is never renamed into place.
	if _, err := s.cache.PutFrom(ctx, name, &sizedReader{r: src, want: src.Size()}); err != nil {
		return fmt.Errorf("cache %s: %w", name, err)
	}
	return nil
}

// sizedReader turns an early EOF into io.ErrUnexpectedEOF. want <= 0 disables the check.
type sizedReader struct {
	r    io.Reader
	want int64
	got  int64
}

func (s *sizedReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.got += int64(n)
	if err == io.EOF && s.want > 0 && s.got < s.want {
		return n, fmt.Errorf("got %d of %d bytes: %w", s.got, s.want, io.ErrUnexpectedEOF)
	}
	return n, err
}

// Put writes to the inner store, then refreshes the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.inner.Put(ctx, name, data); err != nil {
		return err
	}
	return s.cache.Put(ctx, name, data)
}

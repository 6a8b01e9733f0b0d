package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/hupe1980/annlab/blobstore"
	"github.com/hupe1980/annlab/blobstore/minio"
	"github.com/hupe1980/annlab/blobstore/s3"
)

// openStore resolves a store location:
//
//	./data, file:///data         local directory
//	s3://bucket/prefix           AWS S3 (default credential chain)
//	minio://host:9000/bucket/prefix
//
// MinIO credentials come from MINIO_ACCESS_KEY and MINIO_SECRET_KEY;
// MINIO_SECURE=false disables TLS.
func openStore(ctx context.Context, location, region, endpoint string) (blobstore.Store, error) {
	if !strings.Contains(location, "://") {
		return blobstore.NewLocalStore(location), nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("parse store %q: %w", location, err)
	}

	switch u.Scheme {
	case "file":
		return blobstore.NewLocalStore(u.Path), nil
	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("store %q: missing bucket", location)
		}
		opts := []s3.Option{s3.WithPrefix(prefixOf(u.Path))}
		if region != "" {
			opts = append(opts, s3.WithRegion(region))
		}
		if endpoint != "" {
			opts = append(opts, s3.WithEndpoint(endpoint))
		}
		return s3.New(ctx, u.Host, opts...)
	case "minio":
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
		if u.Host == "" || bucket == "" {
			return nil, fmt.Errorf("store %q: want minio://host/bucket[/prefix]", location)
		}
		secure := os.Getenv("MINIO_SECURE") != "false"
		return minio.Dial(u.Host, os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), secure, bucket, prefixOf(prefix))
	default:
		return nil, fmt.Errorf("store %q: unsupported scheme %q", location, u.Scheme)
	}
}

func prefixOf(p string) string {
	return strings.Trim(p, "/")
}

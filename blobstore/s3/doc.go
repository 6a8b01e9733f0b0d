// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "ann-benchmarks",
//	    s3.WithPrefix("sift1m/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	base, err := vecfile.Load[float32](ctx, store, "sift_base.fvecs.zst")
//
// # Features
//
//   - Streaming GETs, so compressed datasets decode while downloading
//   - Multipart uploads via feature/s3/manager for large artifacts
//   - Configurable prefix for sharing one bucket between datasets
package s3

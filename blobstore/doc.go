// Package blobstore provides the storage abstraction annlab reads datasets
// from and writes reports to.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local directory; blobs are memory-mapped on Open
//   - MemoryStore: in-memory, for tests
//   - s3.Store: Amazon S3 (streaming GETs, multipart uploads)
//   - minio.Store: MinIO and other S3-compatible services
//
// # Zero-copy reads
//
// Blobs that also implement [Mappable] expose their full contents without a
// copy. The dataset loader uses this for uncompressed local files:
//
//	if m, ok := blob.(blobstore.Mappable); ok {
//	    data, _ := m.Bytes()
//	    ...
//	}
package blobstore

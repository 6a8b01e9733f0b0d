// Package minio provides a blobstore.Store for MinIO and other S3-compatible
// object stores, built on minio-go.
//
//	client, _ := miniogo.New("localhost:9000", &miniogo.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	store := minio.NewStore(client, "datasets", "sift1m/")
package minio

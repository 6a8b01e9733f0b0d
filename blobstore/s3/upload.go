package s3

import "github.com/aws/aws-sdk-go-v2/feature/s3/manager"

// UploadConfig tunes multipart uploads of saved datasets and ground truth.
type UploadConfig struct {
	// PartSize is the multipart chunk size. Zero keeps the SDK default.
	PartSize int64

	// Concurrency is the number of parts in flight. Zero keeps the SDK default.
	Concurrency int

	// LeavePartsOnError skips the abort of a failed multipart upload.
	LeavePartsOnError bool
}

// DefaultUploadConfig uses 16 MiB parts, so a SIFT1M base set (~490 MiB)
// goes up in about 30 parts.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:    16 << 20,
		Concurrency: 4,
	}
}

func newUploader(client Client, cfg UploadConfig) *manager.Uploader {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		if cfg.PartSize > 0 {
			u.PartSize = cfg.PartSize
		}
		if cfg.Concurrency > 0 {
			u.Concurrency = cfg.Concurrency
		}
		u.LeavePartsOnError = cfg.LeavePartsOnError
	})
}

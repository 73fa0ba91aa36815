// server/internal/storage/storage.go
package storage

import (
	"context"
	"io"

	"devcamper-api-server/config"
)

// PhotoStore persists uploaded bootcamp photos. Save returns the public
// location of the stored file (a filename for the disk store, a URL for S3).
type PhotoStore interface {
	Save(ctx context.Context, filename string, content io.Reader, contentType string) (string, error)
}

// NewPhotoStore selects the S3 backend when a bucket is configured,
// otherwise stores to the local upload directory.
func NewPhotoStore(cfg config.Config) (PhotoStore, error) {
	if cfg.S3.Bucket != "" {
		return NewS3Store(cfg.S3)
	}
	return NewDiskStore(cfg.Upload.Path), nil
}

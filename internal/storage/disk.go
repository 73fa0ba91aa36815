// server/internal/storage/disk.go
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes photos to a local directory, served as static files.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

func (s *DiskStore) Save(ctx context.Context, filename string, content io.Reader, contentType string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	file, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", err
	}

	return filename, nil
}

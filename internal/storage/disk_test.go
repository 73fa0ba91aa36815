// server/internal/storage/disk_test.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiskStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(filepath.Join(dir, "uploads"))

	location, err := store.Save(context.Background(), "photo_abc.jpg", strings.NewReader("fake-jpeg-bytes"), "image/jpeg")
	assert.NoError(t, err)
	assert.Equal(t, "photo_abc.jpg", location)

	content, err := os.ReadFile(filepath.Join(dir, "uploads", "photo_abc.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "fake-jpeg-bytes", string(content))
}

func TestDiskStore_Overwrite(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir)

	_, err := store.Save(context.Background(), "photo_abc.jpg", strings.NewReader("first"), "image/jpeg")
	assert.NoError(t, err)
	_, err = store.Save(context.Background(), "photo_abc.jpg", strings.NewReader("second"), "image/jpeg")
	assert.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "photo_abc.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, "second", string(content))
}

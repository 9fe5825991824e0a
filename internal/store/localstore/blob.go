package localstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoSnapshot is returned by BlobStore.Read when no snapshot has been
// written yet.
var ErrNoSnapshot = errors.New("no snapshot exists")

// BlobStore persists the snapshot as a single opaque blob under a fixed key.
// The blob is read and rewritten wholesale on every mutation.
type BlobStore interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileBlobStore keeps the snapshot in a single file on local disk.
type FileBlobStore struct {
	path string
}

// NewFileBlobStore creates a FileBlobStore writing to the given path.
func NewFileBlobStore(path string) *FileBlobStore {
	return &FileBlobStore{path: path}
}

// Read returns the snapshot file contents, or ErrNoSnapshot if the file does
// not exist yet.
func (s *FileBlobStore) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return data, nil
}

// Write replaces the snapshot file. The write goes through a temp file and
// rename so a crash mid-write never leaves a torn snapshot behind.
func (s *FileBlobStore) Write(_ context.Context, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

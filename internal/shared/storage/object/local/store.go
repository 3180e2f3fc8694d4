package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"orgdocs-backend/internal/shared/storage/object"
	"orgdocs-backend/internal/shared/util"
)

// Store implements ObjectStore on the local filesystem. Every object lands
// directly in baseDir under a flattened, sanitized name.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Name implements ObjectStore.
func (s *Store) Name() string { return "local" }

// Put writes data to baseDir and returns a file:// URL. The bucket is not
// part of the file name.
func (s *Store) Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if path == "" {
		return "", object.ErrInvalidPath
	}

	dir, err := filepath.Abs(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve dir: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dir, util.SanitizeStoragePath(path))
	if filepath.Dir(fullPath) != dir {
		return "", object.ErrInvalidPath
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return "file://" + filepath.ToSlash(fullPath), nil
}

var _ object.ObjectStore = (*Store)(nil)

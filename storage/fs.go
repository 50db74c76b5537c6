package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists blobs under a base directory on the local filesystem.
// It is the fallback used when no remote storage credentials are
// configured.
type FileStore struct {
	baseDir string
	baseURL string
}

// NewFileStore creates a file store rooted at baseDir. baseURL, when
// non-empty, prefixes returned URLs; otherwise file:// URLs are returned.
func NewFileStore(baseDir, baseURL string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Store writes data to baseDir/key, creating intermediate directories.
func (s *FileStore) Store(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	if key == "" {
		return Object{}, ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}

	path := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Object{}, fmt.Errorf("creating storage directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("writing %s: %w", path, err)
	}

	url := "file://" + path
	if s.baseURL != "" {
		url = s.baseURL + "/" + key
	}

	return Object{URL: url, Path: key}, nil
}

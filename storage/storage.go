package storage

import (
	"context"
	"errors"
	"os"
)

// ErrEmptyKey is returned when a store is asked to persist under an empty
// key.
var ErrEmptyKey = errors.New("storage: empty key")

// Object locates a stored blob.
type Object struct {
	// URL is a retrievable address for the blob.
	URL string

	// Path is the canonical storage path (the key the blob was stored
	// under).
	Path string
}

// Store persists blobs under caller-chosen keys. Implementations decide
// where bytes live; the extraction pipeline only depends on this
// interface.
type Store interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (Object, error)
}

// Environment variables consulted by FromEnv.
const (
	EnvToken     = "EXAMINE_STORAGE_TOKEN"
	EnvEndpoint  = "EXAMINE_STORAGE_ENDPOINT"
	EnvBucket    = "EXAMINE_STORAGE_BUCKET"
	EnvPublicURL = "EXAMINE_STORAGE_PUBLIC_URL"
	EnvDir       = "EXAMINE_STORAGE_DIR"
	EnvBaseURL   = "EXAMINE_STORAGE_BASE_URL"
)

// DefaultDir is the local directory used when no remote credentials are
// configured and no directory override is set.
const DefaultDir = "diagrams"

// FromEnv builds a store from environment configuration. When a remote
// token and endpoint are present it returns an HTTPStore; otherwise it
// falls back to a local FileStore. Callers never need to know which one
// they got.
func FromEnv() Store {
	token := os.Getenv(EnvToken)
	endpoint := os.Getenv(EnvEndpoint)

	if token != "" && endpoint != "" {
		return NewHTTPStore(endpoint, os.Getenv(EnvBucket), token, os.Getenv(EnvPublicURL))
	}

	dir := os.Getenv(EnvDir)
	if dir == "" {
		dir = DefaultDir
	}
	return NewFileStore(dir, os.Getenv(EnvBaseURL))
}

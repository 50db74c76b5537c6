package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStore uploads blobs to a bucket-style object storage service over
// HTTP, authenticated with a bearer token.
type HTTPStore struct {
	endpoint  string
	bucket    string
	token     string
	publicURL string
	client    *http.Client
}

// NewHTTPStore creates a store that PUTs objects to
// endpoint/bucket/<key>. publicURL, when non-empty, is used to build the
// returned object URLs; otherwise the upload URL is returned.
func NewHTTPStore(endpoint, bucket, token, publicURL string) *HTTPStore {
	return &HTTPStore{
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		bucket:    bucket,
		token:     token,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Store uploads data under key and returns its public locator.
func (s *HTTPStore) Store(ctx context.Context, key string, data []byte, contentType string) (Object, error) {
	if key == "" {
		return Object{}, ErrEmptyKey
	}

	target := s.endpoint + "/" + key
	if s.bucket != "" {
		target = s.endpoint + "/" + s.bucket + "/" + key
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return Object{}, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return Object{}, fmt.Errorf("uploading %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Object{}, fmt.Errorf("uploading %s: status %d: %s", key, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	url := target
	if s.publicURL != "" {
		url = s.publicURL + "/" + key
	}

	return Object{URL: url, Path: key}, nil
}

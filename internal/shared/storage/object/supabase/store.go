package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	platform "orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/storage/object"
)

// Store writes objects through the platform storage API.
type Store struct {
	client *platform.Client
}

// New constructs a storage-API backed ObjectStore.
func New(client *platform.Client) *Store {
	return &Store{client: client}
}

// Name implements ObjectStore.
func (s *Store) Name() string { return "supabase" }

// PublicURL is the public object URL for bucket/path.
func (s *Store) PublicURL(bucket, path string) string {
	return s.client.BaseURL() + "/storage/v1/object/public/" + escapePath(bucket) + "/" + escapePath(path)
}

// Put issues PUT /storage/v1/object/<bucket>/<path> and succeeds on any 2xx.
func (s *Store) Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(path) == "" || strings.HasPrefix(path, "/") {
		return "", object.ErrInvalidPath
	}
	if !s.client.Configured() {
		return "", platform.ErrNotConfigured
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if data == nil {
		data = []byte{}
	}

	resp, err := s.client.Do(ctx, platform.Request{
		Method:      http.MethodPut,
		Path:        "/storage/v1/object/" + escapePath(bucket) + "/" + escapePath(path),
		Body:        data,
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", &platform.StatusError{Op: "storage upload", Status: resp.Status, Body: resp.Text()}
	}
	return s.PublicURL(bucket, path), nil
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

var _ object.ObjectStore = (*Store)(nil)

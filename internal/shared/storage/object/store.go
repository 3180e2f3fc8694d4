package object

import (
	"context"
	"errors"
)

// ErrInvalidPath is returned for empty or absolute object paths.
var ErrInvalidPath = errors.New("object: invalid path")

// ObjectStore writes whole objects and reports where they can be fetched.
type ObjectStore interface {
	// Put stores data under bucket/path and returns its URL.
	Put(ctx context.Context, bucket, path string, data []byte, contentType string) (url string, err error)
	// Name identifies the backend in logs and metrics.
	Name() string
}

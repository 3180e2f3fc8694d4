package object

import (
	"context"
	"fmt"

	"orgdocs-backend/internal/shared/metrics"
	"orgdocs-backend/internal/shared/telemetry"
)

// Fallback writes to Primary and, when that fails for any reason, to Secondary.
type Fallback struct {
	Primary   ObjectStore
	Secondary ObjectStore
}

// NewFallback constructs a Fallback. A nil primary always uses secondary.
func NewFallback(primary, secondary ObjectStore) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

// Name reports both backends.
func (f *Fallback) Name() string {
	primary := "none"
	if f.Primary != nil {
		primary = f.Primary.Name()
	}
	return primary + "+" + f.Secondary.Name()
}

// Put implements ObjectStore.
func (f *Fallback) Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	var primaryErr error
	if f.Primary != nil {
		url, err := f.Primary.Put(ctx, bucket, path, data, contentType)
		metrics.IncStorageWrite(f.Primary.Name(), err == nil)
		if err == nil {
			return url, nil
		}
		primaryErr = err
		telemetry.Error("storage.primary.failed", map[string]any{
			"backend": f.Primary.Name(),
			"bucket":  bucket,
			"path":    path,
			"err":     err.Error(),
		})
	}

	url, err := f.Secondary.Put(ctx, bucket, path, data, contentType)
	metrics.IncStorageWrite(f.Secondary.Name(), err == nil)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("fallback write: %w (primary: %v)", err, primaryErr)
		}
		return "", fmt.Errorf("fallback write: %w", err)
	}
	telemetry.Warn("storage.fallback.used", map[string]any{
		"backend": f.Secondary.Name(),
		"bucket":  bucket,
		"path":    path,
		"url":     url,
	})
	return url, nil
}

var _ ObjectStore = (*Fallback)(nil)

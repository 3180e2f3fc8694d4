package documents

import (
	"context"
	"time"
)

// Record is the metadata row written once per stored upload. CreatedAt is
// assigned by the store and is never sent on insert.
type Record struct {
	ID          string    `json:"id"`
	OrgID       string    `json:"org_id"`
	UploadedBy  string    `json:"uploaded_by"`
	Filename    string    `json:"filename"`
	StoragePath string    `json:"storage_path"`
	Bucket      string    `json:"bucket"`
	PublicURL   string    `json:"public_url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"-"`
}

// Row renders the record the way the store echoes it back.
func (r Record) Row() map[string]any {
	row := map[string]any{
		"id":           r.ID,
		"org_id":       r.OrgID,
		"uploaded_by":  r.UploadedBy,
		"filename":     r.Filename,
		"storage_path": r.StoragePath,
		"bucket":       r.Bucket,
		"public_url":   r.PublicURL,
		"content_type": r.ContentType,
		"size_bytes":   r.SizeBytes,
		"description":  nil,
	}
	if r.Description != nil {
		row["description"] = *r.Description
	}
	if !r.CreatedAt.IsZero() {
		row["created_at"] = r.CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	return row
}

// InsertResult is the outcome of an insert. Rows holds whatever the store
// returned; Err is set only when every attempt failed.
type InsertResult struct {
	Rows     []map[string]any
	Attempts int
	Err      error
}

// Empty reports whether the store returned no row data.
func (r InsertResult) Empty() bool {
	return len(r.Rows) == 0
}

// Writer persists document records.
type Writer interface {
	Insert(ctx context.Context, rec Record) InsertResult
}

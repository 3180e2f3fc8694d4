package documents

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo writes records directly to Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert writes one row and echoes it back with the store-assigned created_at.
func (r *PGRepo) Insert(ctx context.Context, rec Record) InsertResult {
	const query = `
INSERT INTO "Organization_Documents" (
    id,
    org_id,
    uploaded_by,
    filename,
    storage_path,
    bucket,
    public_url,
    content_type,
    size_bytes,
    description
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING created_at`

	var description sql.NullString
	if rec.Description != nil {
		description = sql.NullString{String: *rec.Description, Valid: true}
	}

	var createdAt time.Time
	err := r.DB.QueryRowContext(
		ctx,
		query,
		rec.ID,
		rec.OrgID,
		rec.UploadedBy,
		rec.Filename,
		rec.StoragePath,
		rec.Bucket,
		rec.PublicURL,
		rec.ContentType,
		rec.SizeBytes,
		description,
	).Scan(&createdAt)
	if err != nil {
		return InsertResult{Attempts: 1, Err: err}
	}
	rec.CreatedAt = createdAt
	return InsertResult{Rows: []map[string]any{rec.Row()}, Attempts: 1}
}

var _ Writer = (*PGRepo)(nil)

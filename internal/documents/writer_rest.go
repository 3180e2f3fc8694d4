package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/telemetry"
)

// RESTWriter inserts records through PostgREST.
type RESTWriter struct {
	Client *supabase.Client
	Table  string
}

// NewRESTWriter constructs a RESTWriter for table.
func NewRESTWriter(client *supabase.Client, table string) *RESTWriter {
	if strings.TrimSpace(table) == "" {
		table = "Organization_Documents"
	}
	return &RESTWriter{Client: client, Table: table}
}

// Insert posts the record as a one-element array and, if that is not
// accepted, once more as a bare object. Both attempts failing yields an
// empty result carrying the last error.
func (w *RESTWriter) Insert(ctx context.Context, rec Record) InsertResult {
	if !w.Client.Configured() {
		return InsertResult{Err: supabase.ErrNotConfigured}
	}

	var errs []error
	attempts := 0
	for _, shape := range []struct {
		name string
		body any
	}{
		{name: "array", body: []Record{rec}},
		{name: "object", body: rec},
	} {
		attempts++
		rows, err := w.post(ctx, shape.body)
		if err == nil {
			if attempts > 1 {
				telemetry.Warn("documents.insert.object_fallback", map[string]any{"document_id": rec.ID})
			}
			return InsertResult{Rows: rows, Attempts: attempts}
		}
		errs = append(errs, fmt.Errorf("%s insert: %w", shape.name, err))
		telemetry.Warn("documents.insert.attempt_failed", map[string]any{
			"document_id": rec.ID,
			"shape":       shape.name,
			"err":         err.Error(),
		})
	}
	return InsertResult{Attempts: attempts, Err: errors.Join(errs...)}
}

func (w *RESTWriter) post(ctx context.Context, body any) ([]map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	resp, err := w.Client.Do(ctx, supabase.Request{
		Method:      http.MethodPost,
		Path:        "/rest/v1/" + url.PathEscape(w.Table),
		Body:        payload,
		ContentType: "application/json",
		Headers:     map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &supabase.StatusError{Op: "document insert", Status: resp.Status, Body: resp.Text()}
	}
	return decodeRows(resp.Body), nil
}

// decodeRows accepts either an array of rows or a single row. Anything
// else is treated as no data.
func decodeRows(body []byte) []map[string]any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var rows []map[string]any
	if err := json.Unmarshal(trimmed, &rows); err == nil {
		return rows
	}
	var row map[string]any
	if err := json.Unmarshal(trimmed, &row); err == nil && len(row) > 0 {
		return []map[string]any{row}
	}
	return nil
}

var _ Writer = (*RESTWriter)(nil)

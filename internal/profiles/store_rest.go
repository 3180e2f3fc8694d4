package profiles

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/telemetry"
)

// RESTStore queries profiles through PostgREST.
type RESTStore struct {
	Client *supabase.Client
	Table  string
}

// NewRESTStore constructs a RESTStore for table.
func NewRESTStore(client *supabase.Client, table string) *RESTStore {
	if strings.TrimSpace(table) == "" {
		table = "UserProfiles"
	}
	return &RESTStore{Client: client, Table: table}
}

// Find issues GET /rest/v1/<table>?id=eq.<id>. 200 and 206 are both success.
func (s *RESTStore) Find(ctx context.Context, f Filter) Result {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Result{Err: ErrEmptyFilter}
	}
	if !s.Client.Configured() {
		return Result{Err: supabase.ErrNotConfigured}
	}

	resp, err := s.Client.Do(ctx, supabase.Request{
		Method: http.MethodGet,
		Path:   "/rest/v1/" + url.PathEscape(s.Table),
		Query:  url.Values{"id": []string{"eq." + id}},
	})
	if err != nil {
		telemetry.Warn("profiles.find.failed", map[string]any{"err": err.Error(), "user_id": id})
		return Result{Err: err}
	}
	if resp.Status != http.StatusOK && resp.Status != http.StatusPartialContent {
		statusErr := &supabase.StatusError{Op: "profile lookup", Status: resp.Status, Body: resp.Text()}
		telemetry.Warn("profiles.find.status", map[string]any{"status": resp.Status, "user_id": id})
		return Result{Err: statusErr}
	}

	var rows []Profile
	if err := json.Unmarshal(resp.Body, &rows); err != nil {
		return Result{Err: fmt.Errorf("decode profiles: %w", err)}
	}
	return Result{Rows: rows}
}

var _ Store = (*RESTStore)(nil)

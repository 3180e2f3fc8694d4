package profiles

import (
	"context"
	"encoding/json"
	"errors"

	"orgdocs-backend/internal/shared/util"
)

// ErrEmptyFilter is returned when a lookup names no criteria. An
// unfiltered query would return every profile.
var ErrEmptyFilter = errors.New("profiles: empty filter")

// Profile is one row of the user profile table.
type Profile struct {
	ID    string `json:"id"`
	OrgID string `json:"org_id"`
	Email string `json:"email,omitempty"`
}

// UnmarshalJSON accepts org_id as a string or a number.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID    string          `json:"id"`
		OrgID json.RawMessage `json:"org_id"`
		Email *string         `json:"email"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Profile{ID: raw.ID, OrgID: util.OrgIDString(raw.OrgID)}
	if raw.Email != nil {
		p.Email = *raw.Email
	}
	return nil
}

// Filter selects profiles by equality.
type Filter struct {
	ID string
}

// Result is the outcome of a lookup. Err is set when the lookup itself
// failed, which callers may treat the same as no rows.
type Result struct {
	Rows []Profile
	Err  error
}

// Empty reports whether the lookup produced no rows, for any reason.
func (r Result) Empty() bool {
	return len(r.Rows) == 0
}

// Store looks up profiles.
type Store interface {
	Find(ctx context.Context, f Filter) Result
}

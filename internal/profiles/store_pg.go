package profiles

import (
	"context"
	"database/sql"
	"strings"
)

// PGStore reads profiles directly from Postgres.
type PGStore struct {
	DB *sql.DB
}

// Find selects every profile matching the filter; uniqueness is not assumed.
func (s *PGStore) Find(ctx context.Context, f Filter) Result {
	id := strings.TrimSpace(f.ID)
	if id == "" {
		return Result{Err: ErrEmptyFilter}
	}

	const query = `
SELECT id, org_id, email
FROM "UserProfiles"
WHERE id = $1`
	rows, err := s.DB.QueryContext(ctx, query, id)
	if err != nil {
		return Result{Err: err}
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		var orgID sql.NullString
		var email sql.NullString
		if err := rows.Scan(&p.ID, &orgID, &email); err != nil {
			return Result{Err: err}
		}
		if orgID.Valid {
			p.OrgID = orgID.String
		}
		if email.Valid {
			p.Email = email.String
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return Result{Err: err}
	}
	return Result{Rows: out}
}

var _ Store = (*PGStore)(nil)

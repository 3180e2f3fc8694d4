package organizations

import (
	"context"

	"orgdocs-backend/internal/identity"
	"orgdocs-backend/internal/profiles"
	"orgdocs-backend/internal/shared/telemetry"
)

// Source records where an organization id came from.
type Source string

const (
	SourceClaim   Source = "claim"
	SourceProfile Source = "profile"
)

// Resolution is a resolved organization membership.
type Resolution struct {
	OrgID  string
	Source Source
}

// Resolver maps a user to an organization: token claim first, profile row second.
type Resolver struct {
	Profiles profiles.Store
}

// NewResolver constructs a Resolver.
func NewResolver(store profiles.Store) *Resolver {
	return &Resolver{Profiles: store}
}

// Resolve returns false when there is no user, no claim and no usable
// profile row. Profile rows are not assumed unique: rows without an org_id
// are skipped, and rows naming different organizations make the membership
// ambiguous, which also resolves to false.
func (r *Resolver) Resolve(ctx context.Context, user *identity.User) (Resolution, bool) {
	if user == nil || user.ID == "" {
		return Resolution{}, false
	}
	if claim := user.OrgClaim(); claim != "" {
		return Resolution{OrgID: claim, Source: SourceClaim}, true
	}
	if r == nil || r.Profiles == nil {
		return Resolution{}, false
	}

	res := r.Profiles.Find(ctx, profiles.Filter{ID: user.ID})
	if res.Err != nil {
		telemetry.Warn("organizations.profile_lookup_failed", map[string]any{
			"user_id": user.ID,
			"err":     res.Err.Error(),
		})
		return Resolution{}, false
	}

	orgID := ""
	for _, row := range res.Rows {
		if row.OrgID == "" {
			continue
		}
		if orgID == "" {
			orgID = row.OrgID
			continue
		}
		if row.OrgID != orgID {
			telemetry.Warn("organizations.ambiguous_profile", map[string]any{
				"user_id": user.ID,
				"rows":    len(res.Rows),
			})
			return Resolution{}, false
		}
	}
	if len(res.Rows) > 1 {
		telemetry.Warn("organizations.duplicate_profile_rows", map[string]any{
			"user_id": user.ID,
			"rows":    len(res.Rows),
		})
	}
	if orgID == "" {
		return Resolution{}, false
	}
	return Resolution{OrgID: orgID, Source: SourceProfile}, true
}

package identity

import "orgdocs-backend/internal/shared/util"

// User is the identity returned by the auth provider's current-user endpoint.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// OrgClaim returns the org_id embedded in user metadata, or "". Numeric
// ids are rendered in decimal.
func (u User) OrgClaim() string {
	if u.UserMetadata == nil {
		return ""
	}
	return util.OrgIDString(u.UserMetadata["org_id"])
}

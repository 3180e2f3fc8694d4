package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"orgdocs-backend/internal/shared/supabase"
	"orgdocs-backend/internal/shared/telemetry"
)

// Verifier validates bearer tokens against the auth provider.
type Verifier struct {
	Client *supabase.Client
}

// NewVerifier constructs a Verifier.
func NewVerifier(client *supabase.Client) *Verifier {
	return &Verifier{Client: client}
}

// TokenFromHeader strips an optional case-insensitive "Bearer " prefix.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, "bearer") {
		return ""
	}
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

// Verify resolves the user behind an Authorization header value. A missing
// header, a rejected token and any transport or decode failure all report
// false; Verify never returns an error.
func (v *Verifier) Verify(ctx context.Context, authHeader string) (User, bool) {
	token := TokenFromHeader(authHeader)
	if token == "" {
		telemetry.Info("identity.no_credential", nil)
		return User{}, false
	}
	if v == nil || !v.Client.Configured() {
		telemetry.Warn("identity.not_configured", nil)
		return User{}, false
	}

	resp, err := v.Client.Do(ctx, supabase.Request{
		Method: http.MethodGet,
		Path:   "/auth/v1/user",
		Bearer: token,
	})
	if err != nil {
		telemetry.Warn("identity.verify.failed", map[string]any{
			"err":           err.Error(),
			"token_preview": telemetry.Preview(token, 12),
		})
		return User{}, false
	}
	if resp.Status != http.StatusOK {
		telemetry.Info("identity.verify.rejected", map[string]any{
			"status":        resp.Status,
			"token_preview": telemetry.Preview(token, 12),
		})
		return User{}, false
	}

	var user User
	if err := json.Unmarshal(resp.Body, &user); err != nil {
		telemetry.Warn("identity.verify.decode_failed", map[string]any{"err": err.Error()})
		return User{}, false
	}
	if strings.TrimSpace(user.ID) == "" {
		telemetry.Warn("identity.verify.missing_id", nil)
		return User{}, false
	}

	telemetry.Debug("identity.verify.ok", map[string]any{"user_id": user.ID, "email": user.Email})
	return user, true
}

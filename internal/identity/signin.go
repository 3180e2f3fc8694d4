package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"orgdocs-backend/internal/shared/supabase"
)

// Session is the raw token response from a password grant, kept as-is so
// callers can hand it back to the browser.
type Session map[string]any

// User extracts the embedded user object.
func (s Session) User() User {
	raw, ok := s["user"].(map[string]any)
	if !ok {
		return User{}
	}
	var u User
	if id, ok := raw["id"].(string); ok {
		u.ID = id
	}
	if email, ok := raw["email"].(string); ok {
		u.Email = email
	}
	if meta, ok := raw["user_metadata"].(map[string]any); ok {
		u.UserMetadata = meta
	}
	return u
}

// SignInError carries the provider's rejection so it can be relayed.
type SignInError struct {
	Status int
	Body   []byte
}

func (e *SignInError) Error() string {
	return fmt.Sprintf("sign-in rejected: %d", e.Status)
}

// SignIn exchanges email and password for a session via the password grant.
func (v *Verifier) SignIn(ctx context.Context, email, password string) (Session, error) {
	if v == nil || !v.Client.Configured() {
		return nil, supabase.ErrNotConfigured
	}
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp, err := v.Client.Do(ctx, supabase.Request{
		Method:      http.MethodPost,
		Path:        "/auth/v1/token",
		Query:       url.Values{"grant_type": []string{"password"}},
		Body:        body,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	if resp.Status >= 400 {
		return nil, &SignInError{Status: resp.Status, Body: resp.Body}
	}

	var session Session
	if err := json.Unmarshal(resp.Body, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if session == nil {
		return nil, errors.New("decode session: empty body")
	}
	return session, nil
}

package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"orgdocs-backend/internal/shared/config"
)

func TestDoSendsKeyHeaders(t *testing.T) {
	var gotAPIKey, gotAuth, gotQuery, gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	}))
	defer srv.Close()

	c := New(config.Platform{URL: srv.URL + "/", Key: "service-key"}, time.Second)
	resp, err := c.Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/rest/v1/Things",
		Query:       url.Values{"id": []string{"eq.1"}},
		Body:        []byte(`{"a":1}`),
		ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.OK() || resp.Status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Status)
	}
	if gotAPIKey != "service-key" || gotAuth != "Bearer service-key" {
		t.Fatalf("unexpected headers apikey=%q auth=%q", gotAPIKey, gotAuth)
	}
	if gotQuery != "id=eq.1" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotBody != `{"a":1}` || gotType != "application/json" {
		t.Fatalf("unexpected body %q type %q", gotBody, gotType)
	}
}

func TestDoUsesExplicitBearer(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := New(config.Platform{URL: srv.URL, Key: "anon"}, time.Second)
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "auth/v1/user", Bearer: "user-jwt"}); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if gotAuth != "Bearer user-jwt" {
		t.Fatalf("expected user bearer, got %q", gotAuth)
	}
}

func TestDoNotConfigured(t *testing.T) {
	c := New(config.Platform{URL: "https://example.co"}, time.Second)
	if c.Configured() {
		t.Fatalf("expected unconfigured client")
	}
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDoTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := New(config.Platform{URL: base, Key: "k"}, time.Second)
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"}); err == nil {
		t.Fatalf("expected transport error")
	}
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{Op: "storage upload", Status: 403, Body: "denied"}
	if err.Error() != "storage upload failed: 403 denied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

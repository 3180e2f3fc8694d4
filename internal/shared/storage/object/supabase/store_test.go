package supabase

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orgdocs-backend/internal/shared/config"
	platform "orgdocs-backend/internal/shared/supabase"
)

func TestPutSendsObjectAndReturnsPublicURL(t *testing.T) {
	var gotMethod, gotPath, gotType, gotAPIKey, gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"Key":"organization-documents/orgs/org-1/doc.pdf"}`))
	}))
	defer srv.Close()

	store := New(platform.New(config.Platform{URL: srv.URL, Key: "upload-key"}, time.Second))
	url, err := store.Put(context.Background(), "organization-documents", "orgs/org-1/doc.pdf", []byte("%PDF-1.4"), "application/pdf")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/storage/v1/object/organization-documents/orgs/org-1/doc.pdf" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if gotType != "application/pdf" || gotAPIKey != "upload-key" || gotAuth != "Bearer upload-key" {
		t.Fatalf("unexpected headers type=%q apikey=%q auth=%q", gotType, gotAPIKey, gotAuth)
	}
	if gotBody != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", gotBody)
	}
	want := srv.URL + "/storage/v1/object/public/organization-documents/orgs/org-1/doc.pdf"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
}

func TestPutNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"new row violates row-level security policy"}`))
	}))
	defer srv.Close()

	store := New(platform.New(config.Platform{URL: srv.URL, Key: "k"}, time.Second))
	_, err := store.Put(context.Background(), "b", "orgs/o/d.pdf", []byte("x"), "application/pdf")
	var statusErr *platform.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError, got %v", err)
	}
}

func TestPutUnconfigured(t *testing.T) {
	store := New(platform.New(config.Platform{}, time.Second))
	if _, err := store.Put(context.Background(), "b", "p", nil, ""); !errors.Is(err, platform.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

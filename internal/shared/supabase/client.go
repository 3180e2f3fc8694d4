// Package supabase holds the HTTP plumbing shared by every client of the
// hosted platform: auth (GoTrue), PostgREST and storage all take the same
// apikey + bearer header pair.
package supabase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"orgdocs-backend/internal/shared/config"
	"orgdocs-backend/internal/shared/telemetry"
)

const maxResponseBytes = 1 << 20

// ErrNotConfigured is returned when the base URL or key is missing.
var ErrNotConfigured = errors.New("supabase: url or key not configured")

// StatusError reports a non-2xx response from the platform.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Status, e.Body)
}

// Client issues requests against one platform project.
type Client struct {
	baseURL string
	key     string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New builds a Client whose calls are bounded by timeout.
func New(p config.Platform, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(p.URL, "/"),
		key:     p.Key,
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether requests can be sent at all.
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != "" && c.key != ""
}

// BaseURL returns the project URL without a trailing slash.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// KeyPreview returns a loggable prefix of the key.
func (c *Client) KeyPreview() string {
	if c == nil {
		return ""
	}
	return telemetry.Preview(c.key, 12)
}

// Request describes one call. Bearer defaults to the project key.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
	Bearer      string
	Headers     map[string]string
}

// Response is a fully read platform response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Text returns the body truncated for logs and error details.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	const limit = 512
	if len(r.Body) > limit {
		return string(r.Body[:limit]) + "..."
	}
	return string(r.Body)
}

// Do sends req and reads the response body. Transport failures are returned
// as errors; any HTTP status is returned as a Response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	bearer := req.Bearer
	if bearer == "" {
		bearer = c.key
	}
	httpReq.Header.Set("apikey", c.key)
	httpReq.Header.Set("Authorization", "Bearer "+bearer)
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

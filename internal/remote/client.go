// Package remote is a small JSON-over-HTTP client for the REST APIs that have
// no Go SDK in use here.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starford/docmirror/internal/apperr"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody is how much of a failed response body is logged.
const maxErrorBody = 200

// Auth decorates an outgoing request with credentials.
type Auth func(*http.Request)

// BearerAuth sends token in the Authorization header.
func BearerAuth(token string) Auth {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// HeaderAuth sends token in a custom header, e.g. X-Figma-Token.
func HeaderAuth(name, token string) Auth {
	return func(r *http.Request) {
		r.Header.Set(name, token)
	}
}

// NewHTTPClient returns an http.Client with the given per-request timeout.
// A non-positive timeout selects DefaultTimeout.
func NewHTTPClient(timeout time.Duration, transport http.RoundTripper) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Client issues authenticated GET requests below a base URL and decodes JSON.
type Client struct {
	base   string
	http   *http.Client
	auth   Auth
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for failed responses.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client rooted at baseURL.
func NewClient(baseURL string, httpClient *http.Client, auth Auth, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(0, nil)
	}
	c := &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   httpClient,
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches base/path with query and decodes the body into out.
// Any status other than 200 returns an error wrapping apperr.ErrRemoteStatus.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		c.auth(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("remote: unexpected status",
			slog.String("url", endpoint),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)))
		return fmt.Errorf("remote: GET %s: %w %d", endpoint, apperr.ErrRemoteStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s: %w: %v", endpoint, apperr.ErrMalformedResponse, err)
	}
	return nil
}

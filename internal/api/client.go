package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionCookie is the name of the backend's session cookie.
const SessionCookie = "session"

// Client is a thin HTTP client for the nemukerja backend. It carries the
// session cookie, never follows redirects (a redirect to /login means the
// session is gone), and retries HTTP 429 with backoff.
type Client struct {
	baseURL    string
	session    string
	httpClient *http.Client
	maxRetries int
	log        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Redirect handling is
// still forced off.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithMaxRetries sets how many times a 429 is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// NewClient creates a backend client. session may be empty for an
// anonymous viewer.
func NewClient(baseURL, session string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		session: session,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return c
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HasSession reports whether a session cookie is configured.
func (c *Client) HasSession() bool {
	return c.session != ""
}

// request describes one HTTP call. body is kept as bytes so it can be
// replayed on retry.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
}

// getJSON performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) getJSON(ctx context.Context, path string, result interface{}) error {
	return c.send(ctx, request{method: http.MethodGet, path: path}, result)
}

// postJSON performs an HTTP POST request with an optional JSON body.
func (c *Client) postJSON(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	r := request{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/json",
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		r.body = data
	}
	return c.send(ctx, r, result)
}

// send is the core HTTP method that builds the request, attaches the
// session, handles rate limiting with exponential backoff, and decodes
// the JSON response.
func (c *Client) send(ctx context.Context, r request, result interface{}) error {
	url := c.baseURL + r.path
	requestID := uuid.NewString()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var bodyReader io.Reader
		if r.body != nil {
			bodyReader = bytes.NewReader(r.body)
		}

		req, err := http.NewRequestWithContext(ctx, r.method, url, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		if c.session != "" {
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.session})
		}

		started := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Debug().
				Str("request_id", requestID).
				Str("method", r.method).
				Str("path", r.path).
				Err(err).
				Msg("request failed")
			return fmt.Errorf("executing request %s %s: %w", r.method, r.path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		c.log.Debug().
			Str("request_id", requestID).
			Str("method", r.method).
			Str("path", r.path).
			Int("status", resp.StatusCode).
			Dur("elapsed", time.Since(started)).
			Msg("request completed")

		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", r.method, r.path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if err := classifyStatus(r, resp, respBody); err != nil {
			return err
		}

		// No content to parse (e.g. 204).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w",
				r.method, r.path, err,
			)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// classifyStatus maps a non-2xx response to a typed error.
func classifyStatus(r request, resp *http.Response, body []byte) error {
	code := resp.StatusCode
	switch {
	case code >= 200 && code < 300:
		return nil

	case code == http.StatusUnauthorized:
		return &AuthError{Status: code, Message: "session rejected"}

	case code >= 300 && code < 400:
		loc := resp.Header.Get("Location")
		if strings.Contains(loc, "/login") {
			return &AuthError{Status: code, Message: "redirected to " + loc}
		}
		return &StatusError{Method: r.method, Path: r.path, Code: code, Body: loc}

	case code == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", r.method, r.path, ErrNotFound)
	}

	return &StatusError{
		Method: r.method,
		Path:   r.path,
		Code:   code,
		Body:   truncate(string(body), 200),
	}
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

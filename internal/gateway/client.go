// Package gateway is the HTTP client for the CRM backend. It builds URLs, injects
// the tenant and session headers and classifies failures. It never retries, logs
// errors or notifies the user: callers own the policy.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Header names injected on every request
const (
	HeaderTenant    = "X-Tenant-ID"
	HeaderToken     = "X-Session-Token"
	HeaderRequestID = "X-Request-ID"
)

// DefaultTimeout bounds a single request when the caller's context has no deadline
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of a failed response is kept
const maxErrorBody = 64 << 10

// BuildURL joins origin and path with exactly one slash between them
func BuildURL(origin, path string) string {
	origin = strings.TrimRight(origin, "/")
	path = strings.TrimLeft(path, "/")
	if path == "" {
		return origin
	}
	if origin == "" {
		return "/" + path
	}
	return origin + "/" + path
}

// Client talks to one backend origin
type Client struct {
	origin     string
	session    *Session
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (tests use httptest clients).
// A nil client keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout. The http.Client given to
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing at debug level
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for origin. session may be nil (no auth headers).
func NewClient(origin string, session *Session, opts ...Option) *Client {
	c := &Client{
		origin:     origin,
		session:    session,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient.Timeout != c.timeout {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Origin returns the backend origin this client targets
func (c *Client) Origin() string {
	return c.origin
}

// Session returns the session whose values are injected into requests
func (c *Client) Session() *Session {
	return c.session
}

// URL builds an absolute URL for path against the client's origin
func (c *Client) URL(path string) string {
	return BuildURL(c.origin, path)
}

// Send performs one request and returns the raw JSON body of a 2xx response.
// body is JSON-encoded when non-nil.
func (c *Client) Send(ctx context.Context, method, url string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	// read at call time so tenant switches and logouts apply immediately
	tenant, token := c.session.snapshot()
	if tenant != "" {
		req.Header.Set(HeaderTenant, tenant)
	}
	if token != "" {
		req.Header.Set(HeaderToken, token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport").Inc()
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		requestsTotal.WithLabelValues(method, "transport").Inc()
		return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}

	c.logger.Debug("backend request",
		"method", method,
		"url", url,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		requestsTotal.WithLabelValues(method, "rejected").Inc()
		return nil, &ServerRejection{Status: resp.StatusCode, Body: parseBody(data)}
	}

	requestsTotal.WithLabelValues(method, "ok").Inc()
	return json.RawMessage(data), nil
}

// Do sends a request to path (relative to the origin) and decodes the response into out
// when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	raw, err := c.Send(ctx, method, c.URL(path), in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

// parseBody decodes JSON bodies and falls back to the raw text
func parseBody(data []byte) any {
	if len(data) > maxErrorBody {
		data = data[:maxErrorBody]
	}
	var v any
	if err := json.Unmarshal(data, &v); err == nil {
		return v
	}
	return strings.TrimSpace(string(data))
}

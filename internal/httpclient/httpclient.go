// Package httpclient provides the shared outbound HTTP plumbing: a client
// with a logging round-tripper and a base-URL request builder.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/blogctl/internal/logger"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds common HTTP client settings.
type Config struct {
	Timeout   time.Duration
	Transport http.RoundTripper
}

// loggingRoundTripper logs every outbound call and stamps it with an
// X-Request-Id header.
type loggingRoundTripper struct {
	inner http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = newRequestID()
		req = req.Clone(req.Context())
		req.Header.Set("X-Request-Id", requestID)
	}

	resp, err := l.inner.RoundTrip(req)
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithFields("httpclient request failed", logger.Fields{
			"method":     req.Method,
			"url":        redact(req.URL),
			"duration":   duration.String(),
			"request_id": requestID,
			"error":      err.Error(),
		})
		return nil, err
	}

	logger.DebugWithFields("httpclient request done", logger.Fields{
		"method":     req.Method,
		"url":        redact(req.URL),
		"status":     resp.StatusCode,
		"duration":   duration.String(),
		"request_id": requestID,
	})
	return resp, nil
}

// newRequestID generates a UUID v7, falling back to v4.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// redact drops credentials and query values from a URL before logging.
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	cp.User = nil
	cp.RawQuery = ""
	return cp.String()
}

// New creates an http.Client with the logging transport.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{inner: transport},
	}
}

// NewDefault creates an http.Client with the default settings.
func NewDefault() *http.Client {
	return New(Config{})
}

// BaseClient pairs an http.Client with a base URL and an optional bearer
// token source.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string

	// Token returns the bearer token to attach, or "" for anonymous calls.
	Token func() string
}

// NewBaseClient returns a BaseClient for baseURL. A nil httpClient uses
// NewDefault.
func NewBaseClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = NewDefault()
	}
	return &BaseClient{
		HTTPClient: httpClient,
		BaseURL:    baseURL,
	}
}

// NewRequest builds a request for relPath under the base URL. Query
// parameters must go in query; a relPath containing '?' is rejected.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain a query string: %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("httpclient: parse base url: %w", err)
	}
	if relPath != "" {
		base.Path = path.Join("/", base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != nil {
		if token := c.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// Do executes req with the underlying client.
func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

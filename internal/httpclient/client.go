// Package httpclient provides the HTTP client used for upstream API calls.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 10 * time.Second

	// MaxResponseSize is the maximum allowed response size (10MB)
	MaxResponseSize = 10 * 1024 * 1024

	// UserAgent is the user agent string for HTTP requests
	UserAgent = "autoform-mcp-server/1.0"
)

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body.
	// A non-2xx status yields a *HTTPError carrying the response body.
	Get(ctx context.Context, url string) ([]byte, error)
}

// Option configures a DefaultClient
type Option func(*DefaultClient)

// WithURLRedactor installs a function applied to every URL (or URL-bearing
// error text) before it is placed in an error. Request URLs may carry
// credentials as query parameters; the redactor is the last line of defense
// against leaking them through error paths.
func WithURLRedactor(fn func(string) string) Option {
	return func(c *DefaultClient) {
		c.redact = fn
	}
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client *http.Client
	redact func(string) string
}

// NewDefaultClient creates a new default HTTP client with the specified timeout.
// If timeout is 0, uses DefaultTimeout.
func NewDefaultClient(timeout time.Duration, opts ...Option) Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	c := &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
		},
		redact: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %s", c.redact(err.Error()))
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// The wrapped *url.Error embeds the full request URL, so the error
		// text must be redacted rather than wrapped verbatim.
		return nil, fmt.Errorf("failed to execute request: %s", c.redact(err.Error()))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Read response body with size limit
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1) // +1 to detect if limit exceeded
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %s", c.redact(err.Error()))
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes (%.2f MB)",
			MaxResponseSize, float64(MaxResponseSize)/(1024*1024))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, c.redact(url), body)
	}

	return body, nil
}

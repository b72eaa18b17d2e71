package autoform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/slovensko-digital/autoform-mcp-server/internal/httpclient"
	"github.com/slovensko-digital/autoform-mcp-server/internal/metrics"
)

// DefaultEndpoint is the production Autoform corporate-body search endpoint.
const DefaultEndpoint = "https://autoform.ekosystem.slovensko.digital/api/corporate_bodies/search"

// Client issues search requests against the Autoform registry API. One
// outbound call per invocation, no retries, no shared mutable state; safe for
// concurrent use.
type Client struct {
	http     httpclient.Client
	endpoint string
	logger   *zap.Logger
}

// NewClient creates a registry client for the given search endpoint. An empty
// endpoint selects DefaultEndpoint; a zero timeout selects the HTTP client
// default. The underlying HTTP client redacts credentials from every URL it
// places in an error.
func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:     httpclient.NewDefaultClient(timeout, httpclient.WithURLRedactor(SanitizeURL)),
		endpoint: endpoint,
		logger:   logger,
	}
}

// NewClientWithHTTP creates a registry client on top of an existing HTTP
// client. Used by tests; the caller is responsible for redaction wiring.
func NewClientWithHTTP(endpoint string, hc httpclient.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{http: hc, endpoint: endpoint, logger: logger}
}

// upstreamErrorBody is the JSON error shape returned by the Autoform API.
type upstreamErrorBody struct {
	Message string `json:"message"`
}

// Search executes one GET against the search endpoint and maps the JSON array
// response into a SearchResult. Count equals the number of parsed entries;
// the upstream API reports no separate total. Errors are classified as
// *UpstreamHTTPError or *UpstreamTransportError, both with sanitized URLs.
func (c *Client) Search(ctx context.Context, filter SearchFilter, token string) (*SearchResult, error) {
	params := url.Values{}
	params.Set("q", filter.Query())
	params.Set("limit", strconv.Itoa(filter.Limit))
	if filter.ActiveOnly {
		params.Set("filter", "active")
	}
	params.Set(SensitiveParam, token)

	requestURL := c.endpoint + "?" + params.Encode()

	c.logger.Debug("querying autoform registry",
		zap.String("field", string(filter.Field)),
		zap.Int("limit", filter.Limit),
		zap.Bool("active_only", filter.ActiveOnly),
	)

	start := time.Now()
	body, err := c.http.Get(ctx, requestURL)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			metrics.ObserveUpstreamRequest(metrics.OutcomeHTTPError, time.Since(start))
			return nil, c.classifyHTTPError(httpErr)
		}
		metrics.ObserveUpstreamRequest(metrics.OutcomeTransport, time.Since(start))
		return nil, &UpstreamTransportError{Message: SanitizeURL(err.Error())}
	}

	var bodies []CorporateBody
	if err := json.Unmarshal(body, &bodies); err != nil {
		metrics.ObserveUpstreamRequest(metrics.OutcomeDecodeError, time.Since(start))
		return nil, fmt.Errorf("failed to parse autoform API response: %w", err)
	}
	metrics.ObserveUpstreamRequest(metrics.OutcomeSuccess, time.Since(start))

	return &SearchResult{Count: len(bodies), Results: bodies}, nil
}

// classifyHTTPError extracts a human-readable message from a non-success
// response: the JSON "message" field when the body parses, the raw body text
// otherwise. The URL was already redacted by the HTTP client; the message is
// sanitized too in case upstream echoes the request URL back.
func (c *Client) classifyHTTPError(httpErr *httpclient.HTTPError) error {
	message := strings.TrimSpace(string(httpErr.Body))

	var parsed upstreamErrorBody
	if err := json.Unmarshal(httpErr.Body, &parsed); err == nil && parsed.Message != "" {
		message = parsed.Message
	}

	return &UpstreamHTTPError{
		StatusCode: httpErr.StatusCode,
		Message:    SanitizeURL(message),
		URL:        SanitizeURL(httpErr.URL),
	}
}

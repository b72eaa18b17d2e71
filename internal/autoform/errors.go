package autoform

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery indicates a malformed query string. It is reported before
// any network call is made.
var ErrInvalidQuery = errors.New("invalid query")

// ErrMissingCredential indicates that no access token could be resolved from
// any source. It is reported before any network call is made.
var ErrMissingCredential = errors.New("missing credential")

// UpstreamHTTPError is a non-success response from the Autoform API. URL is
// sanitized at construction time; it never contains a credential value.
type UpstreamHTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *UpstreamHTTPError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("autoform API error: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("autoform API error: HTTP %d: %s (url: %s)", e.StatusCode, e.Message, e.URL)
}

// UpstreamTransportError is a network-level failure before any response was
// received (connection refused, timeout). The message is sanitized at
// construction time because Go transport errors embed the full request URL.
type UpstreamTransportError struct {
	Message string
}

func (e *UpstreamTransportError) Error() string {
	return fmt.Sprintf("autoform API request failed: %s", e.Message)
}

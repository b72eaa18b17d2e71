package httpclient

import "fmt"

// HTTPError represents a non-success HTTP response. URL is stored as given by
// the client, after redaction. Body is the raw response body, kept so callers
// can extract a structured error message.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       []byte
}

// Error returns the error message
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d for URL %s: %s", e.StatusCode, e.URL, string(e.Body))
}

// NewHTTPError creates a new HTTP error
func NewHTTPError(statusCode int, url string, body []byte) error {
	return &HTTPError{
		StatusCode: statusCode,
		URL:        url,
		Body:       body,
	}
}

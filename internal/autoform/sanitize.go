package autoform

import "regexp"

// SensitiveParam is the query parameter carrying the access token on upstream
// requests. Its value must never appear in logs or error messages.
const SensitiveParam = "private_access_token"

// RedactionMarker replaces redacted credential values.
const RedactionMarker = "***"

// Matches the sensitive parameter as an exact key, anywhere in a query string.
// The leading ? or & boundary prevents partial matches on parameter names that
// merely contain SensitiveParam as a suffix.
var sensitiveParamPattern = regexp.MustCompile(`([?&])` + SensitiveParam + `=[^&#]*`)

// SanitizeURL replaces the value of the private_access_token query parameter
// with the redaction marker, leaving every other parameter and their order
// untouched. A string without the parameter is returned unchanged. The
// function is pure and idempotent, and works on any string that may embed a
// request URL (such as transport error text), not only well-formed URLs.
//
// Every URL must pass through here before being placed in a log line, an
// error message, or any other externally observable surface.
func SanitizeURL(s string) string {
	return sensitiveParamPattern.ReplaceAllString(s, "${1}"+SensitiveParam+"="+RedactionMarker)
}

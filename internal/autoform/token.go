package autoform

import (
	"fmt"
	"net/http"
	"os"
	"strings"
)

const (
	// TokenEnvVar is the process-wide fallback credential source. It is read
	// at call time, never cached, so updates between calls take effect.
	TokenEnvVar = "AUTOFORM_PRIVATE_ACCESS_TOKEN"

	// TokenHeader is the custom inbound header carrying a token verbatim.
	TokenHeader = "x-autoform-private-access-token"

	bearerPrefix = "Bearer "
)

// RequestContext carries the recognized inbound headers of one tool
// invocation. It is built by the transport layer from the inbound HTTP
// request and is read-only afterwards. An empty field means the header was
// absent. Stdio transports have no inbound request, so the whole context is
// nil there.
type RequestContext struct {
	// Authorization is the raw Authorization header value.
	Authorization string

	// PrivateAccessToken is the x-autoform-private-access-token header value.
	PrivateAccessToken string
}

// RequestContextFromHeader extracts the recognized headers from an inbound
// request. Returns nil when neither header is present.
func RequestContextFromHeader(h http.Header) *RequestContext {
	rc := &RequestContext{
		Authorization:      h.Get("Authorization"),
		PrivateAccessToken: h.Get(TokenHeader),
	}
	if rc.Authorization == "" && rc.PrivateAccessToken == "" {
		return nil
	}
	return rc
}

// TokenResolver resolves the access token for one upstream call. The
// environment read is injected so tests never mutate real process state.
type TokenResolver struct {
	getenv func(string) string
}

// NewTokenResolver returns a resolver backed by the process environment.
func NewTokenResolver() *TokenResolver {
	return &TokenResolver{getenv: os.Getenv}
}

// NewTokenResolverWithEnv returns a resolver with a custom environment read.
func NewTokenResolverWithEnv(getenv func(string) string) *TokenResolver {
	return &TokenResolver{getenv: getenv}
}

// Resolve produces the access token for one call, first match wins:
//
//  1. Authorization header with Bearer scheme (scheme keyword is
//     case-insensitive, the token is taken verbatim)
//  2. x-autoform-private-access-token header, verbatim
//  3. AUTOFORM_PRIVATE_ACCESS_TOKEN environment variable, read at call time
//
// An Authorization header of a different scheme is ignored entirely. When no
// source yields a value the error names the environment variable; it never
// contains a credential value.
func (r *TokenResolver) Resolve(rc *RequestContext) (string, error) {
	if rc != nil {
		if auth := rc.Authorization; len(auth) > len(bearerPrefix) &&
			strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
			return auth[len(bearerPrefix):], nil
		}
		if rc.PrivateAccessToken != "" {
			return rc.PrivateAccessToken, nil
		}
	}

	if token := r.getenv(TokenEnvVar); token != "" {
		return token, nil
	}

	return "", fmt.Errorf(
		"%w: no token in request headers and %s environment variable is not set",
		ErrMissingCredential, TokenEnvVar)
}

package autoform

import "context"

type requestContextKey struct{}

// WithRequestContext attaches the per-invocation request context. The
// transport layer calls this once per inbound request; the value is read-only
// afterwards.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the request context of the current invocation,
// or nil when the transport did not attach one (stdio).
func RequestContextFrom(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(*RequestContext)
	return rc
}

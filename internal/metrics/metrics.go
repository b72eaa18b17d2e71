// Package metrics defines the Prometheus collectors for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	upstreamRequestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "autoform",
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of upstream Autoform API requests in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoform",
			Name:      "upstream_requests_total",
			Help:      "Total number of upstream Autoform API requests by outcome",
		},
		[]string{"outcome"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "autoform",
			Name:      "http_requests_total",
			Help:      "Total number of inbound HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(upstreamRequestDuration)
	prometheus.MustRegister(upstreamRequestsTotal)
	prometheus.MustRegister(httpRequestsTotal)
}

// Upstream outcome labels.
const (
	OutcomeSuccess     = "success"
	OutcomeHTTPError   = "http_error"
	OutcomeTransport   = "transport_error"
	OutcomeDecodeError = "decode_error"
)

// ObserveUpstreamRequest records one upstream call.
func ObserveUpstreamRequest(outcome string, duration time.Duration) {
	upstreamRequestDuration.Observe(duration.Seconds())
	upstreamRequestsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records inbound HTTP request counts for the HTTP transport. The
// chi wrapper preserves the optional writer interfaces (http.Flusher in
// particular) that SSE responses on the MCP endpoint depend on.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Use chi route pattern for path normalization
			path := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		})
	}
}

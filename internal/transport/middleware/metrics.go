package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/timesheet-management/internal/metrics"
	"github.com/go-chi/chi"
)

// MetricsMiddleware counts requests by matched route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		next.ServeHTTP(sw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.ObserveHTTP(r.Method, route, strconv.Itoa(sw.status()), start)
	})
}

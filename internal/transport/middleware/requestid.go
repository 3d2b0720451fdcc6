package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/timesheet-management/pkg/logger"

	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

type ctxKey string

const traceIDKey ctxKey = "traceID"

// RequestID reuses the caller's X-Trace-ID or mints one, echoes it on the
// response and stores a logger tagged with it in the request context.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceIDHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			ctx := context.WithValue(r.Context(), traceIDKey, traceID)
			ctx = logger.Into(ctx, base.With("trace_id", traceID))

			w.Header().Set(TraceIDHeader, traceID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}

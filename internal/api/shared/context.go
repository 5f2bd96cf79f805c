// Package shared holds helpers common to all HTTP handlers.
package shared

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/vitaehq/vitae-api/internal/platform/logger"
)

// contextKey is a private type for context keys defined in this package.
type contextKey string

// TraceIDKey is the context key under which the request trace ID is stored.
const TraceIDKey contextKey = "trace_id"

// TraceIDMiddleware copies the chi request ID into the context under
// TraceIDKey and stores a trace-annotated logger alongside it, so
// handlers and stores reached through logger.FromContext correlate
// their log lines with the request.
func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := middleware.GetReqID(r.Context())
		if reqID != "" {
			ctx := context.WithValue(r.Context(), TraceIDKey, reqID)
			ctx = logger.WithLogger(ctx, slog.Default().With("trace_id", reqID))
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// GetTraceID retrieves the trace ID from the context, or "" if absent.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/wrenhall/tome-api/internal/api/shared"
	"github.com/wrenhall/tome-api/internal/platform/logger"
)

// TraceMiddleware adds a trace ID to the request context and attaches a
// request-scoped logger carrying it, so every downstream log line picked
// up via logger.FromContextOrDefault includes the trace ID. It should run
// early in the middleware chain so every later handler sees both.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		requestLogger := slog.Default().With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, requestLogger)

		requestLogger.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/goalpost/internal/api/shared"
	"github.com/phrazzld/goalpost/internal/platform/logger"
)

// NewTraceMiddleware tags every request with a trace ID and a request-scoped
// logger, so handler logs and error responses can be correlated.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			traceID := shared.GetTraceID(ctx)

			ctx = logger.WithLogger(ctx, base)
			ctx = logger.WithCorrelationID(ctx, traceID)

			logger.FromContext(ctx).Debug("request started",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

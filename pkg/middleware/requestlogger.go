package middleware

import (
	"log/slog"
	"net/http"

	"github.com/bichitomultihogar/elcausa/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context. The logger
// carries correlation_id, session_id, trace_id and span_id when present.
//
// Mount it after RequestLogging, Tracing and Session.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Routes outside the Session group still get the header value in logs.
			if logger.SessionIDFromContext(ctx) == "" {
				if sid := r.Header.Get(SessionHeader); sid != "" {
					ctx = logger.WithSessionID(ctx, sid)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/bichitomultihogar/elcausa/pkg/httputil"
	"github.com/bichitomultihogar/elcausa/pkg/logger"
)

// SessionHeader carries the browser session that owns a cart and a favorites set.
const SessionHeader = "X-Session-ID"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]{8,128}$`)

// Session resolves the shopper session from the X-Session-ID header. When the
// header is absent a fresh identifier is minted and echoed back so the client
// can keep using it. Malformed identifiers are rejected with 400.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		} else if !sessionIDPattern.MatchString(sessionID) {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_SESSION",
					Message: "X-Session-ID must be 8-128 characters of letters, digits, '-' or '_'",
				},
			})
			return
		}

		w.Header().Set(SessionHeader, sessionID)
		ctx := logger.WithSessionID(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionIDFromContext returns the session resolved by Session, or "".
func SessionIDFromContext(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

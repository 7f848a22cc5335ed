package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/phrazzld/goalpost/internal/api/shared"
	"github.com/phrazzld/goalpost/internal/platform/logger"
)

// OpsTokenAuth guards the operator endpoints with a static bearer token.
type OpsTokenAuth struct {
	token []byte
}

// NewOpsTokenAuth creates the middleware for the given token.
func NewOpsTokenAuth(token string) *OpsTokenAuth {
	return &OpsTokenAuth{token: []byte(token)}
}

// Authenticate rejects requests whose Authorization header does not carry
// the configured token.
func (m *OpsTokenAuth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), m.token) != 1 {
			logger.FromContext(r.Context()).Warn("rejected operator request with wrong token",
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr)
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

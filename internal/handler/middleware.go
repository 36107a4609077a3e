package handler

import (
	"net/http"
	"strings"

	"github.com/guilhermeviannac/credpix/pkg/auth"
	"github.com/guilhermeviannac/credpix/pkg/response"
)

// AuthMiddleware parses the bearer token and places the principal in the
// request context. Requests without a valid token are rejected.
func AuthMiddleware(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.Unauthorized(w, "missing Authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Unauthorized(w, "malformed Authorization header")
				return
			}

			principal, err := tokens.Parse(parts[1])
			if err != nil {
				response.Unauthorized(w, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireAdmin rejects non-admin principals before the handler runs.
func RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			response.Unauthorized(w, "authentication required")
			return
		}
		if !principal.IsAdmin() {
			response.Forbidden(w, "admin role required")
			return
		}
		next(w, r)
	}
}

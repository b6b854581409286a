package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lverma/planora/internal/auth"
	"github.com/lverma/planora/internal/models"
)

type ContextKey string

const IdentityContextKey ContextKey = "currentUser"

// IdentityFromContext returns the authenticated identity stored by the
// auth middleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(IdentityContextKey).(auth.Identity)
	return identity, ok
}

// Auth returns middleware that requires a valid bearer token and
// attaches the verified identity to the request context. A missing or
// non-Bearer Authorization header is 401, never 403.
func Auth(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || scheme != "Bearer" || token == "" {
				writeMessage(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			identity, err := tokens.Verify(token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole returns middleware that rejects authenticated callers
// whose global role is not in the allowed set. Must run after Auth.
func RequireRole(allowed ...models.GlobalRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeMessage(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			for _, role := range allowed {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeMessage(w, http.StatusForbidden, "Forbidden")
		})
	}
}

// ResponseWrapperMiddleware sets the JSON content type on all responses.
func ResponseWrapperMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

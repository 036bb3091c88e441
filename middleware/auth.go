package middleware

import (
	"context"
	"net/http"
	"strings"

	"spookin_server/models"
	"spookin_server/services"
)

type contextKey string

const sessionContextKey = contextKey("session")

// Auth validates the bearer token and injects the session into the
// request context. Routes behind it can still be reached by guest
// sessions; handlers gate registered-only actions themselves.
func Auth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if token == "" {
				http.Error(w, `{"error": "missing authorization token"}`, http.StatusUnauthorized)
				return
			}

			session, err := authService.GetSession(r.Context(), token)
			if err != nil {
				http.Error(w, `{"error": "invalid or expired session"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, *session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the session injected by Auth.
func SessionFromContext(ctx context.Context) (models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(models.Session)
	return session, ok
}

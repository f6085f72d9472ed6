package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/rolurq/shopify-backend-challenge/internal/domain"
)

type contextKey struct{}

var userKey contextKey

// Middleware resolves the Authorization header to an authenticated
// user in the request context. Requests without a token pass through
// anonymous; handlers that need identity reject those themselves.
// A present-but-invalid token is rejected outright.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, "malformed authorization header", http.StatusUnauthorized)
			return
		}

		user, err := m.Verify(tokenString)
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}

// ContextWithUser is a test helper for exercising handlers behind
// the middleware.
func ContextWithUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/airoxlab/bizposcash-sub000/internal/domain"
	"github.com/airoxlab/bizposcash-sub000/internal/infrastructure/auth"
)

// ContextKey is the type for context keys.
type ContextKey string

// PrincipalContextKey is the context key for the authenticated principal.
const PrincipalContextKey ContextKey = "principal"

// AuthMiddleware verifies the bearer token and stores the resulting
// principal in the request context. Every operation downstream takes the
// principal explicitly; this is the only place it is ambient.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			principal := domain.Principal{
				ID:   claims.UserID,
				Role: claims.Role,
			}

			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireApprover rejects principals that cannot sign off transactions.
func RequireApprover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !principal.CanApprove() {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext extracts the authenticated principal from context.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(PrincipalContextKey).(domain.Principal)
	return principal, ok
}

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/jefferson-ssantos/monitor-ipu/internal/apierrors"
)

// contextKey is an unexported type used for context keys to avoid collisions.
type contextKey int

const claimsContextKey contextKey = iota

// Middleware returns an HTTP middleware that validates the Bearer token from
// the Authorization header and injects the authenticated claims into the
// request context.
func Middleware(jwtMgr *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.NewUnauthorizedError("missing authorization header").Write(w, r)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				apierrors.NewUnauthorizedError("unsupported authorization scheme").Write(w, r)
				return
			}

			claims, err := jwtMgr.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				apierrors.NewUnauthorizedError("invalid or expired token").Write(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the Claims stored in the context by the auth
// middleware.
func GetClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey).(*Claims)
	return claims
}

// GetClienteIDFromContext returns the authenticated user's client ID.
func GetClienteIDFromContext(ctx context.Context) (int, bool) {
	claims := GetClaimsFromContext(ctx)
	if claims == nil {
		return 0, false
	}
	return claims.ClienteID, true
}

// Package correlation propagates a per-request correlation ID.
package correlation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// HeaderName is the HTTP header for correlation IDs.
const HeaderName = "X-Correlation-ID"

// Middleware takes the caller's correlation ID or mints one, stores it in the
// request context and echoes it on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(HeaderName, id)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// GetID retrieves the correlation ID from context, empty when absent.
func GetID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// WithID adds a correlation ID to the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

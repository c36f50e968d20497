package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// contextKey is an unexported type for context keys in this package.
// A custom type prevents collisions with keys from other packages.
type contextKey string

const (
	HeaderXRequestID = "X-Request-Id"
	HeaderXActor     = "X-Actor"

	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "request_id"
	// ContextKeyActor is the context key for the acting operator, taken
	// from the X-Actor header on admin requests.
	ContextKeyActor contextKey = "actor"
)

// AttachRequestMetadata copies the chi request ID and the operator
// identity header into typed context values and echoes the request ID
// back to the client.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())

		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
		if actor := r.Header.Get(HeaderXActor); actor != "" {
			ctx = context.WithValue(ctx, ContextKeyActor, actor)
		}

		w.Header().Set(HeaderXRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the operator identity attached by
// AttachRequestMetadata, or "operator" when none was supplied.
func ActorFromContext(ctx context.Context) string {
	if actor, ok := ctx.Value(ContextKeyActor).(string); ok && actor != "" {
		return actor
	}
	return "operator"
}

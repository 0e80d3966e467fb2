package middleware

import (
	"context"
	"net/http"
	"strings"

	"roombook/pkg/logger"
	"roombook/pkg/token"
)

const (
	ClaimsKey contextKey = "claims"
	bearerKey contextKey = "bearer_token"
)

// Authentication validates the bearer token and stores the parsed claims in
// the request context. It does not authorize anything; per-operation decisions
// belong to the authorization gate consulted by the handlers.
func Authentication(tokens *token.Manager, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}

			raw := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.Parse(raw)
			if err != nil {
				log.Warn("Rejected request with invalid token",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = ContextWithBearer(ctx, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated claims, or nil when the request
// did not pass through the Authentication middleware.
func ClaimsFromContext(ctx context.Context) *token.Claims {
	claims, _ := ctx.Value(ClaimsKey).(*token.Claims)
	return claims
}

// ContextWithBearer stores the verified raw token so outbound directory calls
// can forward the caller's credentials.
func ContextWithBearer(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, bearerKey, raw)
}

// BearerFromContext returns the caller's raw bearer token, or empty when the
// request did not carry one.
func BearerFromContext(ctx context.Context) string {
	raw, _ := ctx.Value(bearerKey).(string)
	return raw
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Missing or invalid bearer token"}`))
}

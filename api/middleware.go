/*
middleware.go - Bearer-token authentication for statement routes

PURPOSE:
  Verifies the Authorization header on protected routes and injects the
  authenticated user id into the request context. Token verification is
  delegated to the users service so the secret stays in one place.
*/
package api

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier validates a bearer token and returns the subject user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// WithAuth requires a valid bearer token and puts the user id in the context.
func WithAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "missing bearer token", "unauthorized")
				return
			}

			userID, err := verifier.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil || userID == "" {
				writeError(w, http.StatusUnauthorized, "invalid token", "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFrom returns the authenticated user id injected by WithAuth.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

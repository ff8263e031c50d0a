package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cineswipe/services/users"
)

type contextKey string

// userIDKey carries the authenticated user's ID through the request context.
const userIDKey contextKey = "userID"

type tokenVerifier interface {
	VerifyToken(token string) (string, error)
}

var _ tokenVerifier = (*users.Service)(nil)

// AuthMiddleware validates the bearer token and stores the caller's user ID
// in the request context. Routes carrying a {userID} variable additionally
// require it to match the token's subject.
func AuthMiddleware(verifier tokenVerifier) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			userID, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if pathUser := mux.Vars(r)["userID"]; pathUser != "" && pathUser != userID {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID from the request context.
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

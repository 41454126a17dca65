// Package internal holds the HTTP middleware shared by the handlers.
package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/johndosdos/campus-connect/internal/auth"
)

// TokenValidator resolves a bearer token to a user ID.
type TokenValidator interface {
	ValidateJWT(tokenString string) (uuid.UUID, error)
}

// AccessTokenCookie is set after a Google sign-in.
const AccessTokenCookie = "access_token"

// Middleware validates the client's bearer token, taken from the
// Authorization header or the access_token cookie, and stores the user ID
// in the request context.
func Middleware(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.ValidateJWT(token)
			if err != nil {
				slog.DebugContext(r.Context(), "rejected bearer token", slog.Any("error", err))
				unauthorized(w)
				return
			}

			r = r.WithContext(context.WithValue(r.Context(), auth.UserIDKey, userID))
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from the request, if any.
func BearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}

	if c, err := r.Cookie(AccessTokenCookie); err == nil {
		return c.Value
	}

	return ""
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"detail": "Invalid authentication credentials",
	})
}

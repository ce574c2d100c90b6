package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/services"
	"github.com/triporia/triporia-backend/internal/store"
)

type contextKey string

const userContextKey contextKey = "authUser"

// UserFromContext returns the authenticated user attached by Authenticate.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

func writeAuthError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   kind,
		"message": message,
	})
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// Authenticate verifies the request's bearer token, resolves the acting
// user and attaches it (password excluded) to the request context.
func Authenticate(tokens *services.TokenService, users store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing_token", "Not authorized, no token")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					writeAuthError(w, http.StatusUnauthorized, "expired_token", "Token has expired")
					return
				}
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "Not authorized")
				return
			}

			id, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "invalid_token", "Not authorized")
				return
			}

			// The account may have been removed between issuance and use.
			user, err := users.FindByID(r.Context(), id)
			if errors.Is(err, store.ErrNotFound) {
				writeAuthError(w, http.StatusUnauthorized, "user_not_found", "Not authorized")
				return
			}
			if err != nil {
				writeAuthError(w, http.StatusInternalServerError, "server_error", "Server error")
				return
			}

			sanitized := user.Sanitized()
			ctx := context.WithValue(r.Context(), userContextKey, &sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize passes the request through when the authenticated user's role
// is in allowedRoles. It must run after Authenticate; a missing context
// user is reported as 401, never a panic.
func Authorize(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
				return
			}

			for _, role := range allowedRoles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeAuthError(w, http.StatusForbidden, "forbidden", "You are not authorized to access this route")
		})
	}
}

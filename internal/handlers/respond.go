package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/triporia/triporia-backend/internal/services"
	"github.com/triporia/triporia-backend/internal/store"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// writeServiceError maps the business-rule error taxonomy to HTTP statuses
// and stable kinds. Anything unrecognized (store faults, timeouts) becomes
// a generic 500 so persistence details never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, "validation_error", ve.Msg)
	case errors.Is(err, services.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "duplicate_email", "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid credentials")
	case errors.Is(err, services.ErrNotVerified):
		writeError(w, http.StatusForbidden, "not_verified", "User not verified. Please contact administrator.")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, services.ErrInvalidProviderToken):
		writeError(w, http.StatusUnauthorized, "invalid_provider_token", "Google login failed")
	case errors.Is(err, services.ErrGoogleNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "google_unavailable", "Google login is not configured")
	case errors.Is(err, services.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to perform this action")
	case errors.Is(err, services.ErrExpiredToken):
		writeError(w, http.StatusUnauthorized, "expired_token", "Token has expired")
	case errors.Is(err, services.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_token", "Invalid token")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Resource not found")
	default:
		log.Printf("server error: %v", err)
		writeError(w, http.StatusInternalServerError, "server_error", "Server error")
	}
}

package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/middleware"
	"github.com/triporia/triporia-backend/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	Token string `json:"token"`
}

type AuthResponse struct {
	User    models.User `json:"user"`
	Token   string      `json:"token"`
	Message string      `json:"message"`
}

// Register handles POST /api/auth/register.
func Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := identity.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{
		User:    result.User,
		Token:   result.Token,
		Message: "User registered successfully",
	})
}

// Login handles POST /api/auth/login.
func Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:    result.User,
		Token:   result.Token,
		Message: "Login successful",
	})
}

// GoogleLogin handles POST /api/auth/google-login (ID-token flow).
func GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Google ID token is required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := identity.GoogleLogin(ctx, req.Token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:    result.User,
		Token:   result.Token,
		Message: "Google login successful",
	})
}

// GoogleRedirect handles GET /api/auth/google: sends the browser to the
// Google consent screen. An optional role query parameter travels through
// the opaque state.
func GoogleRedirect(w http.ResponseWriter, r *http.Request) {
	if googleOAuth == nil {
		writeError(w, http.StatusServiceUnavailable, "google_unavailable", "Google login is not configured")
		return
	}

	role := r.URL.Query().Get("role")
	if role == "" {
		role = models.RoleUser
	}
	state, _ := json.Marshal(map[string]string{"role": role})

	http.Redirect(w, r, googleOAuth.AuthURL(base64.StdEncoding.EncodeToString(state)), http.StatusFound)
}

// GoogleCallback handles GET /api/auth/google/callback (redirect flow).
func GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if googleOAuth == nil {
		writeError(w, http.StatusServiceUnavailable, "google_unavailable", "Google login is not configured")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	result, err := identity.GoogleCallback(ctx, r.URL.Query().Get("code"), r.URL.Query().Get("state"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{
		User:    result.User,
		Token:   result.Token,
		Message: "Google login successful",
	})
}

// Me handles GET /api/auth/me.
func Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := identity.CurrentUser(ctx, actor.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so logout is
// a client-side discard; the endpoint exists for the frontend contract.
func Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Logged out successfully",
		"clearToken": true,
	})
}

// VerifyUser handles PUT /api/auth/verify/{id} (admin only).
func VerifyUser(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid user id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	user, err := identity.VerifyUser(ctx, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User verified successfully",
		"user":    user,
	})
}

// ForgotPassword handles POST /api/auth/forgot-password. The reset token is
// only echoed back outside production; in production it would go out by
// email.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	token, err := identity.ForgotPassword(ctx, req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := map[string]interface{}{"message": "Password reset link sent to your email"}
	if cfg.IsDevelopment() {
		resp["resetToken"] = token
	}
	writeJSON(w, http.StatusOK, resp)
}

// ResetPassword handles POST /api/auth/reset-password.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := identity.ResetPassword(ctx, req.Token, req.Password); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

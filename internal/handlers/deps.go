package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/triporia/triporia-backend/internal/config"
	"github.com/triporia/triporia-backend/internal/services"
)

// Package-level collaborators, wired once from main before the router is
// assembled.
var (
	cfg           *config.Config
	identity      *services.IdentityService
	ratings       *services.RatingService
	googleOAuth   *services.GoogleOAuth
	cloudinarySvc *services.CloudinaryService
	cache         = &services.CacheService{}
)

// Init wires the handler package's collaborators. googleFlow and cloudinary
// may be nil when the corresponding credentials are not configured; the
// affected routes then report the feature as unavailable.
func Init(c *config.Config, identitySvc *services.IdentityService, ratingSvc *services.RatingService, googleFlow *services.GoogleOAuth, cloudinary *services.CloudinaryService) {
	cfg = c
	identity = identitySvc
	ratings = ratingSvc
	googleOAuth = googleFlow
	cloudinarySvc = cloudinary
}

// requestContext bounds a persistence operation by the caller's request
// lifetime plus a hard cap.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 10*time.Second)
}

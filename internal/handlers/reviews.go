package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/middleware"
)

type CreateReviewRequest struct {
	ItemType string   `json:"itemType"`
	Item     string   `json:"item"`
	Rating   int      `json:"rating"`
	Comment  string   `json:"comment"`
	Images   []string `json:"images,omitempty"`
}

// GetReviews handles GET /api/reviews.
func GetReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	reviews, err := ratings.ListReviews(ctx)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/reviews. Creating a review recomputes the
// reviewed item's average rating.
func CreateReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	itemID, err := primitive.ObjectIDFromHex(req.Item)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid item id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	review, err := ratings.CreateReview(ctx, actor.ID, req.ItemType, itemID, req.Rating, req.Comment, req.Images)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// DeleteReview handles DELETE /api/reviews/{id}. Author or admin only.
func DeleteReview(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid review id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if err := ratings.DeleteReview(ctx, id, actor); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}

package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/store"
)

// RatingService persists reviews and keeps the reviewed item's derived
// averageRating field up to date.
type RatingService struct {
	reviews store.ReviewStore
	items   store.ItemStore
}

func NewRatingService(reviews store.ReviewStore, items store.ItemStore) *RatingService {
	return &RatingService{reviews: reviews, items: items}
}

// CreateReview validates, persists the review, then recomputes the item's
// average from the full current review set. The read-then-write is not
// serialized against concurrent reviews of the same item: the later write
// wins and the average converges on the next creation. Unrelated items are
// never blocked.
func (s *RatingService) CreateReview(ctx context.Context, author primitive.ObjectID, itemType string, itemID primitive.ObjectID, rating int, comment string, images []string) (*models.Review, error) {
	if !models.ValidItemType(itemType) {
		return nil, validationErr("itemType must be one of trip, hotel, car")
	}
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, validationErr("rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, validationErr("comment is required")
	}

	exists, err := s.items.Exists(ctx, itemType, itemID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, validationErr("reviewed item does not exist")
	}

	review := &models.Review{
		User:     author,
		ItemType: itemType,
		Item:     itemID,
		Rating:   rating,
		Comment:  comment,
		Images:   images,
	}
	if err := s.reviews.Insert(ctx, review); err != nil {
		return nil, err
	}

	if err := s.recomputeAverage(ctx, itemType, itemID); err != nil {
		return nil, err
	}
	return review, nil
}

// recomputeAverage re-reads every review for the item and writes back the
// arithmetic mean. Always a full rescan, never an incremental patch.
func (s *RatingService) recomputeAverage(ctx context.Context, itemType string, itemID primitive.ObjectID) error {
	all, err := s.reviews.FindByItem(ctx, itemType, itemID)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return nil
	}

	sum := 0
	for _, r := range all {
		sum += r.Rating
	}
	average := float64(sum) / float64(len(all))

	return s.items.UpdateAverageRating(ctx, itemType, itemID, average)
}

// ListReviews returns all reviews, newest first.
func (s *RatingService) ListReviews(ctx context.Context) ([]models.Review, error) {
	return s.reviews.All(ctx)
}

// DeleteReview removes a review when the actor is its author or an admin.
// The item's average rating is intentionally left untouched: it goes stale
// until the next review creation for that item, matching the documented
// behavior of the original system.
func (s *RatingService) DeleteReview(ctx context.Context, id primitive.ObjectID, actor *models.User) error {
	review, err := s.reviews.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return err
	}

	if review.User != actor.ID && actor.Role != models.RoleAdmin {
		return ErrForbidden
	}

	return s.reviews.Delete(ctx, id)
}

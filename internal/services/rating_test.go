package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/models"
	"github.com/triporia/triporia-backend/internal/store"
)

type memReviewStore struct {
	reviews map[primitive.ObjectID]models.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{reviews: make(map[primitive.ObjectID]models.Review)}
}

func (m *memReviewStore) Insert(_ context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	m.reviews[review.ID] = *review
	return nil
}

func (m *memReviewStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r, ok := m.reviews[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

func (m *memReviewStore) FindByItem(_ context.Context, itemType string, itemID primitive.ObjectID) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range m.reviews {
		if r.ItemType == itemType && r.Item == itemID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memReviewStore) All(_ context.Context) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range m.reviews {
		out = append(out, r)
	}
	return out, nil
}

func (m *memReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.reviews[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

// memItemStore records the averages written per item and treats a fixed set
// of ids as existing.
type memItemStore struct {
	existing map[primitive.ObjectID]bool
	averages map[primitive.ObjectID]float64
}

func newMemItemStore(existing ...primitive.ObjectID) *memItemStore {
	m := &memItemStore{
		existing: make(map[primitive.ObjectID]bool),
		averages: make(map[primitive.ObjectID]float64),
	}
	for _, id := range existing {
		m.existing[id] = true
	}
	return m
}

func (m *memItemStore) UpdateAverageRating(_ context.Context, _ string, itemID primitive.ObjectID, average float64) error {
	if !m.existing[itemID] {
		return store.ErrNotFound
	}
	m.averages[itemID] = average
	return nil
}

func (m *memItemStore) Exists(_ context.Context, _ string, itemID primitive.ObjectID) (bool, error) {
	return m.existing[itemID], nil
}

func TestCreateReviewRecomputesAverage(t *testing.T) {
	ctx := context.Background()
	trip := primitive.NewObjectID()
	items := newMemItemStore(trip)
	svc := NewRatingService(newMemReviewStore(), items)
	author := primitive.NewObjectID()

	for i, rating := range []int{4, 5, 3} {
		_, err := svc.CreateReview(ctx, author, models.ItemTypeTrip, trip, rating, "nice trip", nil)
		require.NoError(t, err, "review %d", i)
	}

	assert.InDelta(t, 4.0, items.averages[trip], 1e-9)
}

func TestCreateReviewAveragesPerItem(t *testing.T) {
	ctx := context.Background()
	tripA := primitive.NewObjectID()
	tripB := primitive.NewObjectID()
	items := newMemItemStore(tripA, tripB)
	svc := NewRatingService(newMemReviewStore(), items)
	author := primitive.NewObjectID()

	_, err := svc.CreateReview(ctx, author, models.ItemTypeTrip, tripA, 2, "meh", nil)
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, author, models.ItemTypeTrip, tripB, 5, "great", nil)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, items.averages[tripA], 1e-9)
	assert.InDelta(t, 5.0, items.averages[tripB], 1e-9)
}

func TestCreateReviewValidation(t *testing.T) {
	ctx := context.Background()
	trip := primitive.NewObjectID()
	svc := NewRatingService(newMemReviewStore(), newMemItemStore(trip))
	author := primitive.NewObjectID()

	tests := []struct {
		name     string
		itemType string
		item     primitive.ObjectID
		rating   int
		comment  string
	}{
		{"unknown item type", "flight", trip, 4, "ok"},
		{"rating below minimum", models.ItemTypeTrip, trip, 0, "ok"},
		{"rating above maximum", models.ItemTypeTrip, trip, 6, "ok"},
		{"empty comment", models.ItemTypeTrip, trip, 4, ""},
		{"missing item", models.ItemTypeTrip, primitive.NewObjectID(), 4, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateReview(ctx, author, tt.itemType, tt.item, tt.rating, tt.comment, nil)
			assert.True(t, IsValidation(err), "got %v", err)
		})
	}
}

func TestDeleteReviewLeavesAverageStale(t *testing.T) {
	ctx := context.Background()
	trip := primitive.NewObjectID()
	items := newMemItemStore(trip)
	svc := NewRatingService(newMemReviewStore(), items)
	author := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}

	first, err := svc.CreateReview(ctx, author.ID, models.ItemTypeTrip, trip, 5, "great", nil)
	require.NoError(t, err)
	_, err = svc.CreateReview(ctx, author.ID, models.ItemTypeTrip, trip, 1, "changed my mind", nil)
	require.NoError(t, err)
	require.InDelta(t, 3.0, items.averages[trip], 1e-9)

	require.NoError(t, svc.DeleteReview(ctx, first.ID, author))

	// Deletion does not recompute; the stored average stays at 3.0 until the
	// next review of this trip lands.
	assert.InDelta(t, 3.0, items.averages[trip], 1e-9)

	_, err = svc.CreateReview(ctx, author.ID, models.ItemTypeTrip, trip, 1, "still bad", nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, items.averages[trip], 1e-9)
}

func TestDeleteReviewAuthorization(t *testing.T) {
	ctx := context.Background()
	trip := primitive.NewObjectID()
	svc := NewRatingService(newMemReviewStore(), newMemItemStore(trip))

	author := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	stranger := &models.User{ID: primitive.NewObjectID(), Role: models.RoleUser}
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}

	review, err := svc.CreateReview(ctx, author.ID, models.ItemTypeTrip, trip, 4, "fine", nil)
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, review.ID, stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteReview(ctx, review.ID, admin))

	err = svc.DeleteReview(ctx, review.ID, author)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

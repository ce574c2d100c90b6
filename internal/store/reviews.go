package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/triporia/triporia-backend/internal/database"
	"github.com/triporia/triporia-backend/internal/models"
)

// ReviewStore is consumed by the rating service.
type ReviewStore interface {
	Insert(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByItem(ctx context.Context, itemType string, itemID primitive.ObjectID) ([]models.Review, error)
	All(ctx context.Context) ([]models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoReviewStore struct{}

// NewReviewStore returns the MongoDB-backed review store.
func NewReviewStore() ReviewStore {
	return &mongoReviewStore{}
}

func (s *mongoReviewStore) collection() *mongo.Collection {
	return database.DB.Collection("reviews")
}

func (s *mongoReviewStore) Insert(ctx context.Context, review *models.Review) error {
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = time.Now()
	_, err := s.collection().InsertOne(ctx, review)
	return err
}

func (s *mongoReviewStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *mongoReviewStore) FindByItem(ctx context.Context, itemType string, itemID primitive.ObjectID) ([]models.Review, error) {
	return s.find(ctx, bson.M{"itemType": itemType, "item": itemID}, nil)
}

func (s *mongoReviewStore) All(ctx context.Context) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return s.find(ctx, bson.M{}, opts)
}

func (s *mongoReviewStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Review, error) {
	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = s.collection().Find(ctx, filter, opts)
	} else {
		cursor, err = s.collection().Find(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *mongoReviewStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

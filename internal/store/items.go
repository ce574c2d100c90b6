package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/triporia/triporia-backend/internal/database"
	"github.com/triporia/triporia-backend/internal/models"
)

// ItemStore updates the derived average-rating field on a reviewed item.
// Trip, hotel and car reviews all pass through the same tagged dispatch.
type ItemStore interface {
	UpdateAverageRating(ctx context.Context, itemType string, itemID primitive.ObjectID, average float64) error
	Exists(ctx context.Context, itemType string, itemID primitive.ObjectID) (bool, error)
}

// itemCollection resolves an item type tag to its collection name.
func itemCollection(itemType string) (string, error) {
	switch itemType {
	case models.ItemTypeTrip:
		return "trips", nil
	case models.ItemTypeHotel:
		return "hotels", nil
	case models.ItemTypeCar:
		return "vehicles", nil
	}
	return "", fmt.Errorf("store: unknown item type %q", itemType)
}

type mongoItemStore struct{}

// NewItemStore returns the MongoDB-backed item store.
func NewItemStore() ItemStore {
	return &mongoItemStore{}
}

func (s *mongoItemStore) UpdateAverageRating(ctx context.Context, itemType string, itemID primitive.ObjectID, average float64) error {
	coll, err := itemCollection(itemType)
	if err != nil {
		return err
	}
	res, err := database.DB.Collection(coll).UpdateOne(ctx,
		bson.M{"_id": itemID},
		bson.M{"$set": bson.M{"averageRating": average}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoItemStore) Exists(ctx context.Context, itemType string, itemID primitive.ObjectID) (bool, error) {
	coll, err := itemCollection(itemType)
	if err != nil {
		return false, err
	}
	n, err := database.DB.Collection(coll).CountDocuments(ctx, bson.M{"_id": itemID})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

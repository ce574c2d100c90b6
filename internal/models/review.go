package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reviewable item kinds. "car" reviews target the vehicles collection.
const (
	ItemTypeTrip  = "trip"
	ItemTypeHotel = "hotel"
	ItemTypeCar   = "car"
)

// ValidItemType reports whether t names a reviewable item kind.
func ValidItemType(t string) bool {
	switch t {
	case ItemTypeTrip, ItemTypeHotel, ItemTypeCar:
		return true
	}
	return false
}

// Review rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	ItemType  string             `bson:"itemType" json:"item_type"`
	Item      primitive.ObjectID `bson:"item" json:"item"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

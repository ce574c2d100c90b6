package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip types.
const (
	TripTypeWeekly     = "weekly"
	TripTypeCustomized = "customized"
	TripTypeCorporate  = "corporate"
)

// ValidTripType reports whether t is an enumerated trip type.
func ValidTripType(t string) bool {
	switch t {
	case TripTypeWeekly, TripTypeCustomized, TripTypeCorporate:
		return true
	}
	return false
}

type Trip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`

	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Destination string    `bson:"destination" json:"destination"`
	Duration    int       `bson:"duration" json:"duration"`
	Price       float64   `bson:"price" json:"price"`
	TripType    string    `bson:"tripType" json:"trip_type"`
	StartDate   time.Time `bson:"startDate" json:"start_date"`
	EndDate     time.Time `bson:"endDate" json:"end_date"`

	MaxParticipants     int `bson:"maxParticipants" json:"max_participants"`
	CurrentParticipants int `bson:"currentParticipants" json:"current_participants"`

	Images        []string `bson:"images,omitempty" json:"images,omitempty"`
	AverageRating float64  `bson:"averageRating" json:"average_rating"`
	Status        string   `bson:"status" json:"status"` // upcoming, ongoing, completed, cancelled
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Location struct {
	Address     string       `bson:"address,omitempty" json:"address,omitempty"`
	City        string       `bson:"city,omitempty" json:"city,omitempty"`
	Country     string       `bson:"country,omitempty" json:"country,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

type Hotel struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name        string             `bson:"name" json:"name"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Description string             `bson:"description" json:"description"`
	Location    Location           `bson:"location" json:"location"`

	Images    []string             `bson:"images,omitempty" json:"images,omitempty"`
	Rooms     []primitive.ObjectID `bson:"rooms,omitempty" json:"rooms,omitempty"`
	Amenities []string             `bson:"amenities,omitempty" json:"amenities,omitempty"`

	AverageRating float64 `bson:"averageRating" json:"average_rating"`
	Status        string  `bson:"status" json:"status"` // available, unavailable
}

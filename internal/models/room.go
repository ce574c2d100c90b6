package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Room struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Hotel         primitive.ObjectID `bson:"hotel" json:"hotel"`
	RoomType      string             `bson:"roomType" json:"room_type"` // e.g. Single, Double, Suite
	PricePerNight float64            `bson:"pricePerNight" json:"price_per_night"`
	Amenities     []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Availability  bool               `bson:"availability" json:"availability"`
	MaxOccupancy  int                `bson:"maxOccupancy" json:"max_occupancy"`
	Images        []string           `bson:"images,omitempty" json:"images,omitempty"`
}

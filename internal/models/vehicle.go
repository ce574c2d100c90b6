package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle types.
const (
	VehicleTypeSedan  = "sedan"
	VehicleTypeSUV    = "suv"
	VehicleTypeVan    = "van"
	VehicleTypeLuxury = "luxury"
)

// ValidVehicleType reports whether t is an enumerated vehicle type.
func ValidVehicleType(t string) bool {
	switch t {
	case VehicleTypeSedan, VehicleTypeSUV, VehicleTypeVan, VehicleTypeLuxury:
		return true
	}
	return false
}

type VehicleLocation struct {
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
}

type Vehicle struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Make        string             `bson:"make" json:"make"`
	Model       string             `bson:"model" json:"model"`
	Year        int                `bson:"year" json:"year"`
	Type        string             `bson:"type" json:"type"`
	Seats       int                `bson:"seats" json:"seats"`
	PricePerDay float64            `bson:"pricePerDay" json:"price_per_day"`
	Features    []string           `bson:"features,omitempty" json:"features,omitempty"`
	Location    VehicleLocation    `bson:"location" json:"location"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`

	AverageRating float64 `bson:"averageRating" json:"average_rating"`
	Status        string  `bson:"status" json:"status"` // active, inactive, maintenance
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// ValidBookingStatus reports whether s is an enumerated booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	User        primitive.ObjectID `bson:"user" json:"user"`
	BookingType string             `bson:"bookingType" json:"booking_type"` // trip, hotel, car
	Item        primitive.ObjectID `bson:"item" json:"item"`
	StartDate   time.Time          `bson:"startDate" json:"start_date"`
	EndDate     time.Time          `bson:"endDate" json:"end_date"`
	Guests      int                `bson:"guests,omitempty" json:"guests,omitempty"`
	TotalPrice  float64            `bson:"totalPrice" json:"total_price"`
	Status      string             `bson:"status" json:"status"`
}

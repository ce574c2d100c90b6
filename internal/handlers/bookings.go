package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/triporia/triporia-backend/internal/database"
	"github.com/triporia/triporia-backend/internal/middleware"
	"github.com/triporia/triporia-backend/internal/models"
)

type CreateBookingRequest struct {
	BookingType string    `json:"bookingType"`
	Item        string    `json:"item"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Guests      int       `json:"guests,omitempty"`
	TotalPrice  float64   `json:"totalPrice"`
}

// GetBookings handles GET /api/bookings: the caller's own bookings.
func GetBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection("bookings").Find(ctx, bson.M{"user": actor.ID}, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// CreateBooking handles POST /api/bookings. Trip bookings increment the
// trip's participant counter.
func CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	if !models.ValidItemType(req.BookingType) {
		writeError(w, http.StatusBadRequest, "validation_error", "bookingType must be one of trip, hotel, car")
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.Item)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "Invalid item id")
		return
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate) {
		writeError(w, http.StatusBadRequest, "validation_error", "startDate and endDate must be a valid range")
		return
	}
	if req.TotalPrice <= 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "totalPrice must be positive")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if req.BookingType == models.ItemTypeTrip {
		// Atomically claim a participant slot; fails when the trip is full
		// or does not exist
		res, err := database.DB.Collection("trips").UpdateOne(ctx,
			bson.M{"_id": itemID, "$expr": bson.M{"$lt": bson.A{"$currentParticipants", "$maxParticipants"}}},
			bson.M{"$inc": bson.M{"currentParticipants": 1}})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if res.MatchedCount == 0 {
			writeError(w, http.StatusConflict, "trip_full", "Trip is full or does not exist")
			return
		}
	}

	now := time.Now()
	booking := models.Booking{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		User:        actor.ID,
		BookingType: req.BookingType,
		Item:        itemID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Guests:      req.Guests,
		TotalPrice:  req.TotalPrice,
		Status:      models.BookingStatusPending,
	}

	if _, err := database.DB.Collection("bookings").InsertOne(ctx, booking); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// UpdateBookingStatus handles PUT /api/bookings/{id}/status (admin only).
func UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid booking id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	if !models.ValidBookingStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "validation_error", "invalid booking status")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var booking models.Booking
	err = database.DB.Collection("bookings").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": req.Status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Booking not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}

// CancelBooking handles PUT /api/bookings/{id}/cancel. The booking owner or
// an admin may cancel; cancelling a trip booking releases its participant
// slot.
func CancelBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid booking id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var booking models.Booking
	err = database.DB.Collection("bookings").FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Booking not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if booking.User != actor.ID && actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to cancel this booking")
		return
	}
	if booking.Status == models.BookingStatusCancelled {
		writeJSON(w, http.StatusOK, booking)
		return
	}

	booking.Status = models.BookingStatusCancelled
	booking.UpdatedAt = time.Now()
	_, err = database.DB.Collection("bookings").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": booking.Status, "updated_at": booking.UpdatedAt}})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if booking.BookingType == models.ItemTypeTrip {
		database.DB.Collection("trips").UpdateOne(ctx,
			bson.M{"_id": booking.Item, "currentParticipants": bson.M{"$gt": 0}},
			bson.M{"$inc": bson.M{"currentParticipants": -1}})
	}

	writeJSON(w, http.StatusOK, booking)
}

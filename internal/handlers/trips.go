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
	"github.com/triporia/triporia-backend/internal/models"
)

type TripListResponse struct {
	Trips       []models.Trip `json:"trips"`
	CurrentPage int64         `json:"currentPage"`
	TotalPages  int64         `json:"totalPages"`
	TotalTrips  int64         `json:"totalTrips"`
}

// GetTrips handles GET /api/trips with pagination, destination/price/type
// filters and a Redis-cached response per query string.
func GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	cacheKey := "trips:" + r.URL.RawQuery
	var cached TripListResponse
	if hit, _ := cache.Get(ctx, cacheKey, &cached); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	p := parsePagination(r, "created_at")
	q := r.URL.Query()

	filter := bson.M{}
	if destination := q.Get("destination"); destination != "" {
		filter["destination"] = primitive.Regex{Pattern: destination, Options: "i"}
	}
	if tripType := q.Get("tripType"); tripType != "" {
		filter["tripType"] = tripType
	}
	priceRange(r, "price", filter)

	coll := database.DB.Collection("trips")
	findOpts := options.Find().SetSort(p.SortSpec()).SetSkip(p.Skip()).SetLimit(p.Limit)
	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	trips := []models.Trip{}
	if err := cursor.All(ctx, &trips); err != nil {
		writeServiceError(w, err)
		return
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := TripListResponse{
		Trips:       trips,
		CurrentPage: p.Page,
		TotalPages:  totalPages(total, p.Limit),
		TotalTrips:  total,
	}
	cache.Set(ctx, cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetTrip handles GET /api/trips/{id}.
func GetTrip(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid trip id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var trip models.Trip
	err = database.DB.Collection("trips").FindOne(ctx, bson.M{"_id": id}).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Trip not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

type CreateTripRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Destination     string    `json:"destination"`
	Duration        int       `json:"duration"`
	Price           float64   `json:"price"`
	TripType        string    `json:"tripType"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	MaxParticipants int       `json:"maxParticipants"`
	Images          []string  `json:"images,omitempty"`
}

func (req *CreateTripRequest) validate() string {
	switch {
	case req.Title == "" || req.Description == "" || req.Destination == "":
		return "title, description and destination are required"
	case req.Duration <= 0 || req.Price <= 0 || req.MaxParticipants <= 0:
		return "duration, price and maxParticipants must be positive"
	case !models.ValidTripType(req.TripType):
		return "tripType must be one of weekly, customized, corporate"
	case req.StartDate.IsZero() || req.EndDate.IsZero() || req.EndDate.Before(req.StartDate):
		return "startDate and endDate must be a valid range"
	}
	return ""
}

// CreateTrip handles POST /api/trips (admin only).
func CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, "validation_error", msg)
		return
	}

	now := time.Now()
	trip := models.Trip{
		ID:              primitive.NewObjectID(),
		CreatedAt:       now,
		UpdatedAt:       now,
		Title:           req.Title,
		Description:     req.Description,
		Destination:     req.Destination,
		Duration:        req.Duration,
		Price:           req.Price,
		TripType:        req.TripType,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MaxParticipants: req.MaxParticipants,
		Images:          req.Images,
		Status:          "upcoming",
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection("trips").InsertOne(ctx, trip); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "trips:")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Trip created successfully",
		"trip":    trip,
	})
}

// tripUpdatableFields lists the request keys UpdateTrip will copy into $set.
// Derived and lifecycle fields (averageRating, currentParticipants,
// created_at) are never client-writable.
var tripUpdatableFields = []string{
	"title", "description", "destination", "duration", "price", "tripType",
	"startDate", "endDate", "maxParticipants", "images", "status",
}

// UpdateTrip handles PUT /api/trips/{id} (admin only).
func UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid trip id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	for _, field := range tripUpdatableFields {
		if v, ok := body[field]; ok {
			update[field] = v
		}
	}
	if t, ok := update["tripType"].(string); ok && !models.ValidTripType(t) {
		writeError(w, http.StatusBadRequest, "validation_error", "tripType must be one of weekly, customized, corporate")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var trip models.Trip
	err = database.DB.Collection("trips").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&trip)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Trip not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "trips:")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Trip updated successfully",
		"trip":    trip,
	})
}

// DeleteTrip handles DELETE /api/trips/{id} (admin only).
func DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid trip id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := database.DB.Collection("trips").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "not_found", "Trip not found")
		return
	}
	cache.InvalidatePrefix(ctx, "trips:")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Trip deleted successfully"})
}

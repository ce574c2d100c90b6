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

type HotelListResponse struct {
	Hotels      []models.Hotel `json:"hotels"`
	CurrentPage int64          `json:"currentPage"`
	TotalPages  int64          `json:"totalPages"`
	TotalHotels int64          `json:"totalHotels"`
}

// GetHotels handles GET /api/hotels with pagination and a city filter.
func GetHotels(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	cacheKey := "hotels:" + r.URL.RawQuery
	var cached HotelListResponse
	if hit, _ := cache.Get(ctx, cacheKey, &cached); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	p := parsePagination(r, "created_at")

	filter := bson.M{}
	if city := r.URL.Query().Get("city"); city != "" {
		filter["location.city"] = primitive.Regex{Pattern: city, Options: "i"}
	}

	coll := database.DB.Collection("hotels")
	findOpts := options.Find().SetSort(p.SortSpec()).SetSkip(p.Skip()).SetLimit(p.Limit)
	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	hotels := []models.Hotel{}
	if err := cursor.All(ctx, &hotels); err != nil {
		writeServiceError(w, err)
		return
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := HotelListResponse{
		Hotels:      hotels,
		CurrentPage: p.Page,
		TotalPages:  totalPages(total, p.Limit),
		TotalHotels: total,
	}
	cache.Set(ctx, cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetHotel handles GET /api/hotels/{id}.
func GetHotel(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid hotel id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var hotel models.Hotel
	err = database.DB.Collection("hotels").FindOne(ctx, bson.M{"_id": id}).Decode(&hotel)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Hotel not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hotel)
}

type CreateHotelRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Location    models.Location `json:"location"`
	Amenities   []string        `json:"amenities,omitempty"`
	Images      []string        `json:"images,omitempty"`
}

// CreateHotel handles POST /api/hotels (admin only). The acting admin
// becomes the hotel's owner.
func CreateHotel(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	var req CreateHotelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	if req.Name == "" || req.Description == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "name and description are required")
		return
	}

	now := time.Now()
	hotel := models.Hotel{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        req.Name,
		Owner:       actor.ID,
		Description: req.Description,
		Location:    req.Location,
		Amenities:   req.Amenities,
		Images:      req.Images,
		Status:      "available",
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection("hotels").InsertOne(ctx, hotel); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "hotels:")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Hotel created successfully",
		"hotel":   hotel,
	})
}

var hotelUpdatableFields = []string{
	"name", "description", "location", "amenities", "images", "status",
}

// UpdateHotel handles PUT /api/hotels/{id} (admin only).
func UpdateHotel(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid hotel id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	for _, field := range hotelUpdatableFields {
		if v, ok := body[field]; ok {
			update[field] = v
		}
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var hotel models.Hotel
	err = database.DB.Collection("hotels").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&hotel)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Hotel not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "hotels:")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Hotel updated successfully",
		"hotel":   hotel,
	})
}

// DeleteHotel handles DELETE /api/hotels/{id} (admin only). Rooms belonging
// to the hotel are removed with it.
func DeleteHotel(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid hotel id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := database.DB.Collection("hotels").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		writeError(w, http.StatusNotFound, "not_found", "Hotel not found")
		return
	}
	database.DB.Collection("rooms").DeleteMany(ctx, bson.M{"hotel": id})
	cache.InvalidatePrefix(ctx, "hotels:")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Hotel deleted successfully"})
}

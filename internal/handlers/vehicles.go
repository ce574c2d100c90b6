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

type VehicleListResponse struct {
	Vehicles      []models.Vehicle `json:"vehicles"`
	CurrentPage   int64            `json:"currentPage"`
	TotalPages    int64            `json:"totalPages"`
	TotalVehicles int64            `json:"totalVehicles"`
}

// GetVehicles handles GET /api/vehicles with pagination and type/city/price
// filters.
func GetVehicles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	cacheKey := "vehicles:" + r.URL.RawQuery
	var cached VehicleListResponse
	if hit, _ := cache.Get(ctx, cacheKey, &cached); hit {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	p := parsePagination(r, "created_at")
	q := r.URL.Query()

	filter := bson.M{}
	if vt := q.Get("type"); vt != "" {
		filter["type"] = vt
	}
	if city := q.Get("city"); city != "" {
		filter["location.city"] = primitive.Regex{Pattern: city, Options: "i"}
	}
	priceRange(r, "pricePerDay", filter)

	coll := database.DB.Collection("vehicles")
	findOpts := options.Find().SetSort(p.SortSpec()).SetSkip(p.Skip()).SetLimit(p.Limit)
	cursor, err := coll.Find(ctx, filter, findOpts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	vehicles := []models.Vehicle{}
	if err := cursor.All(ctx, &vehicles); err != nil {
		writeServiceError(w, err)
		return
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := VehicleListResponse{
		Vehicles:      vehicles,
		CurrentPage:   p.Page,
		TotalPages:    totalPages(total, p.Limit),
		TotalVehicles: total,
	}
	cache.Set(ctx, cacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

// GetVehicle handles GET /api/vehicles/{id}.
func GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid vehicle id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var vehicle models.Vehicle
	err = database.DB.Collection("vehicles").FindOne(ctx, bson.M{"_id": id}).Decode(&vehicle)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Vehicle not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

type CreateVehicleRequest struct {
	Make        string                 `json:"make"`
	Model       string                 `json:"model"`
	Year        int                    `json:"year"`
	Type        string                 `json:"type"`
	Seats       int                    `json:"seats"`
	PricePerDay float64                `json:"pricePerDay"`
	Features    []string               `json:"features,omitempty"`
	Location    models.VehicleLocation `json:"location"`
	Images      []string               `json:"images,omitempty"`
}

// CreateVehicle handles POST /api/vehicles (admin or car_owner). The acting
// user becomes the owner.
func CreateVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	var req CreateVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	switch {
	case req.Make == "" || req.Model == "":
		writeError(w, http.StatusBadRequest, "validation_error", "make and model are required")
		return
	case !models.ValidVehicleType(req.Type):
		writeError(w, http.StatusBadRequest, "validation_error", "type must be one of sedan, suv, van, luxury")
		return
	case req.Year <= 0 || req.Seats <= 0 || req.PricePerDay <= 0:
		writeError(w, http.StatusBadRequest, "validation_error", "year, seats and pricePerDay must be positive")
		return
	}

	now := time.Now()
	vehicle := models.Vehicle{
		ID:          primitive.NewObjectID(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Owner:       actor.ID,
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		Type:        req.Type,
		Seats:       req.Seats,
		PricePerDay: req.PricePerDay,
		Features:    req.Features,
		Location:    req.Location,
		Images:      req.Images,
		Status:      "active",
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection("vehicles").InsertOne(ctx, vehicle); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "vehicles:")

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Vehicle created successfully",
		"vehicle": vehicle,
	})
}

var vehicleUpdatableFields = []string{
	"make", "model", "year", "type", "seats", "pricePerDay", "features",
	"location", "images", "status",
}

// UpdateVehicle handles PUT /api/vehicles/{id}. The owner or an admin may
// update.
func UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid vehicle id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var existing models.Vehicle
	err = database.DB.Collection("vehicles").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Vehicle not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing.Owner != actor.ID && actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to update this vehicle")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	for _, field := range vehicleUpdatableFields {
		if v, ok := body[field]; ok {
			update[field] = v
		}
	}
	if t, ok := update["type"].(string); ok && !models.ValidVehicleType(t) {
		writeError(w, http.StatusBadRequest, "validation_error", "type must be one of sedan, suv, van, luxury")
		return
	}

	var vehicle models.Vehicle
	err = database.DB.Collection("vehicles").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&vehicle)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "vehicles:")

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Vehicle updated successfully",
		"vehicle": vehicle,
	})
}

// DeleteVehicle handles DELETE /api/vehicles/{id}. The owner or an admin
// may delete.
func DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid vehicle id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var existing models.Vehicle
	err = database.DB.Collection("vehicles").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Vehicle not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if existing.Owner != actor.ID && actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to delete this vehicle")
		return
	}

	if _, err := database.DB.Collection("vehicles").DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidatePrefix(ctx, "vehicles:")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Vehicle deleted successfully"})
}

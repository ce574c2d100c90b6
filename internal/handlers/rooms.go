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

type CreateRoomRequest struct {
	Hotel         string   `json:"hotel"`
	RoomType      string   `json:"roomType"`
	PricePerNight float64  `json:"pricePerNight"`
	Amenities     []string `json:"amenities,omitempty"`
	MaxOccupancy  int      `json:"maxOccupancy"`
	Images        []string `json:"images,omitempty"`
}

// GetRoomsByHotel handles GET /api/rooms?hotel={id}.
func GetRoomsByHotel(w http.ResponseWriter, r *http.Request) {
	hotelID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("hotel"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid hotel id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	cursor, err := database.DB.Collection("rooms").Find(ctx, bson.M{"hotel": hotelID})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	rooms := []models.Room{}
	if err := cursor.All(ctx, &rooms); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

// CreateRoom handles POST /api/rooms (admin only) and links the room to its
// hotel.
func CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	hotelID, err := primitive.ObjectIDFromHex(req.Hotel)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid hotel id")
		return
	}
	if req.RoomType == "" || req.PricePerNight <= 0 || req.MaxOccupancy <= 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "roomType, pricePerNight and maxOccupancy are required")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	// The hotel must exist before a room can reference it
	n, err := database.DB.Collection("hotels").CountDocuments(ctx, bson.M{"_id": hotelID})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if n == 0 {
		writeError(w, http.StatusNotFound, "not_found", "Hotel not found")
		return
	}

	room := models.Room{
		ID:            primitive.NewObjectID(),
		CreatedAt:     time.Now(),
		Hotel:         hotelID,
		RoomType:      req.RoomType,
		PricePerNight: req.PricePerNight,
		Amenities:     req.Amenities,
		Availability:  true,
		MaxOccupancy:  req.MaxOccupancy,
		Images:        req.Images,
	}

	if _, err := database.DB.Collection("rooms").InsertOne(ctx, room); err != nil {
		writeServiceError(w, err)
		return
	}
	database.DB.Collection("hotels").UpdateOne(ctx,
		bson.M{"_id": hotelID},
		bson.M{"$push": bson.M{"rooms": room.ID}})

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Room created successfully",
		"room":    room,
	})
}

var roomUpdatableFields = []string{
	"roomType", "pricePerNight", "amenities", "availability", "maxOccupancy", "images",
}

// UpdateRoom handles PUT /api/rooms/{id} (admin only).
func UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid room id")
		return
	}

	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	update := bson.M{}
	for _, field := range roomUpdatableFields {
		if v, ok := body[field]; ok {
			update[field] = v
		}
	}
	if len(update) == 0 {
		writeError(w, http.StatusBadRequest, "validation_error", "no updatable fields provided")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var room models.Room
	err = database.DB.Collection("rooms").FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Room not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Room updated successfully",
		"room":    room,
	})
}

// DeleteRoom handles DELETE /api/rooms/{id} (admin only) and unlinks the
// room from its hotel.
func DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid room id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var room models.Room
	err = database.DB.Collection("rooms").FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&room)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Room not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	database.DB.Collection("hotels").UpdateOne(ctx,
		bson.M{"_id": room.Hotel},
		bson.M{"$pull": bson.M{"rooms": room.ID}})

	writeJSON(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})
}

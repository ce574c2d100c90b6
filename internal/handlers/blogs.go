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

// GetBlogs handles GET /api/blogs.
func GetBlogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := database.DB.Collection("blogs").Find(ctx, bson.M{}, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer cursor.Close(ctx)

	blogs := []models.Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blogs)
}

// GetBlog handles GET /api/blogs/{id}.
func GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid blog id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var blog models.Blog
	err = database.DB.Collection("blogs").FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Blog not found")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

type CreateBlogRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags,omitempty"`
	Images  []string `json:"images,omitempty"`
}

// CreateBlog handles POST /api/blogs (authenticated).
func CreateBlog(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "title and content are required")
		return
	}

	now := time.Now()
	blog := models.Blog{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Author:    actor.ID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		Images:    req.Images,
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection("blogs").InsertOne(ctx, blog); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

// loadBlogForWrite fetches a blog and checks the actor may modify it.
func loadBlogForWrite(w http.ResponseWriter, r *http.Request) (*models.Blog, *models.User, bool) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return nil, nil, false
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid blog id")
		return nil, nil, false
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var blog models.Blog
	err = database.DB.Collection("blogs").FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err == mongo.ErrNoDocuments {
		writeError(w, http.StatusNotFound, "not_found", "Blog not found")
		return nil, nil, false
	}
	if err != nil {
		writeServiceError(w, err)
		return nil, nil, false
	}

	if blog.Author != actor.ID && actor.Role != models.RoleAdmin {
		writeError(w, http.StatusForbidden, "forbidden", "Not authorized to modify this blog")
		return nil, nil, false
	}
	return &blog, actor, true
}

// UpdateBlog handles PUT /api/blogs/{id} (author or admin).
func UpdateBlog(w http.ResponseWriter, r *http.Request) {
	blog, _, ok := loadBlogForWrite(w, r)
	if !ok {
		return
	}

	var req CreateBlogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "Invalid request body")
		return
	}

	update := bson.M{"updated_at": time.Now()}
	if req.Title != "" {
		update["title"] = req.Title
	}
	if req.Content != "" {
		update["content"] = req.Content
	}
	if req.Tags != nil {
		update["tags"] = req.Tags
	}
	if req.Images != nil {
		update["images"] = req.Images
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	var updated models.Blog
	err := database.DB.Collection("blogs").FindOneAndUpdate(ctx,
		bson.M{"_id": blog.ID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteBlog handles DELETE /api/blogs/{id} (author or admin).
func DeleteBlog(w http.ResponseWriter, r *http.Request) {
	blog, _, ok := loadBlogForWrite(w, r)
	if !ok {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	if _, err := database.DB.Collection("blogs").DeleteOne(ctx, bson.M{"_id": blog.ID}); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Blog deleted successfully"})
}

// CommentBlog handles POST /api/blogs/{id}/comments (authenticated).
func CommentBlog(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid blog id")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "comment text is required")
		return
	}

	comment := models.BlogComment{
		User:      actor.ID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	res, err := database.DB.Collection("blogs").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": comment}, "$set": bson.M{"updated_at": comment.CreatedAt}})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if res.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "not_found", "Blog not found")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// LikeBlog handles POST /api/blogs/{id}/like (authenticated): a toggle.
func LikeBlog(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "Not authorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid blog id")
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	// Try to like; when the user already liked, unlike instead
	res, err := database.DB.Collection("blogs").UpdateOne(ctx,
		bson.M{"_id": id, "likes": bson.M{"$ne": actor.ID}},
		bson.M{"$push": bson.M{"likes": actor.ID}})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	liked := true
	if res.MatchedCount == 0 {
		unliked, err := database.DB.Collection("blogs").UpdateOne(ctx,
			bson.M{"_id": id, "likes": actor.ID},
			bson.M{"$pull": bson.M{"likes": actor.ID}})
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if unliked.MatchedCount == 0 {
			writeError(w, http.StatusNotFound, "not_found", "Blog not found")
			return
		}
		liked = false
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"liked": liked})
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BlogComment struct {
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Author  primitive.ObjectID `bson:"author" json:"author"`
	Title   string             `bson:"title" json:"title"`
	Content string             `bson:"content" json:"content"`
	Tags    []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Images  []string           `bson:"images,omitempty" json:"images,omitempty"`

	Likes    []primitive.ObjectID `bson:"likes,omitempty" json:"likes,omitempty"`
	Comments []BlogComment        `bson:"comments,omitempty" json:"comments,omitempty"`
}

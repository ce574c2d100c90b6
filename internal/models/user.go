package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleUser     = "user"
	RoleAdmin    = "admin"
	RoleCarOwner = "car_owner"
)

// Auth types recorded on a user account.
const (
	AuthTypeLocal  = "local"
	AuthTypeGoogle = "google"
)

// ValidRole reports whether role is one of the enumerated account roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleCarOwner:
		return true
	}
	return false
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // argon2id hash, never returned

	Role           string `bson:"role" json:"role"`
	GoogleID       string `bson:"googleId,omitempty" json:"-"`
	Verified       bool   `bson:"verified" json:"verified"`
	AuthType       string `bson:"authType" json:"auth_type"`
	ProfilePicture string `bson:"profilePicture,omitempty" json:"profile_picture,omitempty"`
}

// Sanitized returns a copy safe to attach to a request context or encode in
// a response body: the stored password hash is cleared.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

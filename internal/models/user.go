package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account stored in MongoDB
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"` // Store hashed password, ignore for JSON serialization
	ProfilePhoto string             `json:"profilePhoto,omitempty" bson:"profile_photo,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
}

// RegisterRequest defines the multipart form fields for registration
type RegisterRequest struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// LoginRequest defines the request body for logging in
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserRef is the read-time expansion of a user reference on posts and
// comments: only the fields other users are shown.
type UserRef struct {
	Username     string `json:"username"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// Ref returns the expanded form of the user for embedding in responses.
func (u *User) Ref() UserRef {
	return UserRef{Username: u.Username, ProfilePhoto: u.ProfilePhoto}
}

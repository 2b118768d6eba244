package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Comments are
// embedded subdocuments and likes are a set of user IDs; a user appears
// in Likes at most once.
type Post struct {
	ID          primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Image       string               `json:"image,omitempty" bson:"image,omitempty"`
	UserID      primitive.ObjectID   `json:"userId" bson:"user_id"`
	Likes       []primitive.ObjectID `json:"likes" bson:"likes"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
}

// Comment is a subdocument embedded in a post. Comments live and die
// with their parent post and are never edited.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the multipart form fields for creating a post
type CreatePostRequest struct {
	Title       string `form:"title" validate:"required"`
	Description string `form:"description" validate:"required"`
	UserID      string `form:"user_id" validate:"required"`
}

// LikeRequest defines the request body for toggling a like on a post
type LikeRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	UserID string `json:"userId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

// PopulatedPost is a post with its owner and comment author references
// expanded for display. Built at read time, never persisted.
type PopulatedPost struct {
	ID          primitive.ObjectID   `json:"id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Image       string               `json:"image,omitempty"`
	User        UserRef              `json:"user"`
	Likes       []primitive.ObjectID `json:"likes"`
	Comments    []PopulatedComment   `json:"comments"`
	CreatedAt   time.Time            `json:"created_at"`
}

// PopulatedComment is a comment with its author reference expanded.
type PopulatedComment struct {
	ID        primitive.ObjectID `json:"id"`
	User      UserRef            `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"created_at"`
}

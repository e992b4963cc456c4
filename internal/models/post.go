package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a post document stored in MongoDB. The like/comment
// counters are denormalized onto the document and adjusted by the like and
// comment write paths, so a feed page reads counts in the same query as the
// posts themselves.
type Post struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID      uint               `json:"author_id" bson:"author_id"`
	Text          string             `json:"text" bson:"text"`
	CourseID      *uint              `json:"course_id,omitempty" bson:"course_id,omitempty"`
	ModuleID      *uint              `json:"module_id,omitempty" bson:"module_id,omitempty"`
	LikesCount    int                `json:"likes_count" bson:"likes_count"`
	CommentsCount int                `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Text     string `json:"text" validate:"required,min=1,max=280"`
	CourseID *uint  `json:"course_id,omitempty"`
	ModuleID *uint  `json:"module_id,omitempty"`
}

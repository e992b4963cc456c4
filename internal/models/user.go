package models

import (
	"github.com/golang-jwt/jwt/v4"
)

// User represents an account stored in PostgreSQL. Credential issuance lives
// in an external identity provider; this service only stores the profile.
type User struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"size:50;uniqueIndex"`
	Email       string  `json:"email" gorm:"uniqueIndex"`
	Bio         string  `json:"bio"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	FirebaseUID string  `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the public subset of a profile embedded in feed posts and
// notification actors.
type UserCompact struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Bio       string  `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ToCompact strips private fields for embedding in other responses.
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}

type UpdateUserRequest struct {
	Username  string  `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	Bio       string  `json:"bio,omitempty" validate:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User is an account holder. The password column holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Password  string    `json:"-"`
	Image     string    `json:"image"` // Avatar reference (URL)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignupRequest defines the request body for local registration
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2,max=50"`
}

// SigninRequest defines the request body for local login
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EditAvatarRequest defines the request body for changing a user's avatar
type EditAvatarRequest struct {
	UserID uint   `json:"userId" validate:"required"`
	Image  string `json:"image" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

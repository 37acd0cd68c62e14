package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	User        UserView `json:"user"`
	Message     string   `json:"message"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
}

// RegisterRequest is the sign-up payload. Students must provide a roll number.
type RegisterRequest struct {
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required"`
	FirstName    string   `json:"first_name" validate:"required"`
	LastName     string   `json:"last_name" validate:"required"`
	Role         UserRole `json:"role" validate:"required,oneof=student faculty admin"`
	RollNo       *string  `json:"roll_no" validate:"required_if=Role student"`
	Dept         *string  `json:"dept"`
	Class        *string  `json:"class"`
	Section      *string  `json:"section"`
	Phone        *string  `json:"phone"`
	Bio          *string  `json:"bio"`
	CGPA         *float64 `json:"cgpa" validate:"omitempty,gte=0,lte=10"`
	TotalCredits *int     `json:"total_credits" validate:"omitempty,gte=0"`
}

// JWTClaims represents the access token payload.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}

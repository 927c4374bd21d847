package dto

import (
	"time"

	"quiz-quest/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeAccess = "access"

// AuthClaims defines the custom claims for JWT. Subject carries the user's email.
type AuthClaims struct {
	UserID    int64  `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

type RegisterRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Username string      `json:"username" validate:"required,max=50"`
	FullName string      `json:"full_name" validate:"max=100"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=student recruiter admin"`
	IsActive *bool       `json:"is_active"`
	Password string      `json:"password" validate:"required,min=6"`
}

// LoginRequest is the JSON login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginForm is the form-encoded login body; Username holds the email.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

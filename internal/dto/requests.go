package dto

import (
	"time"

	"github.com/sajango/account-service/internal/domain"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=100"`
	FullName string `json:"full_name" binding:"required,min=1,max=255"`
	Password string `json:"password" binding:"required,min=8,max=100"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token to exchange for a new pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// OAuthRequest carries a provider-issued ID token
type OAuthRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// UpdateUserRequest represents a partial user update; nil fields are left
// unchanged
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Username *string `json:"username" binding:"omitempty,min=3,max=100"`
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}

// UserResponse represents a user in API responses; sensitive fields are
// never included
type UserResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FullName     string    `json:"full_name"`
	AuthProvider string    `json:"auth_provider"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user to its API representation
func NewUserResponse(user *domain.User) *UserResponse {
	return &UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FullName:     user.FullName,
		AuthProvider: user.AuthProvider.String(),
		IsActive:     user.IsActive,
		IsVerified:   user.IsVerified,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

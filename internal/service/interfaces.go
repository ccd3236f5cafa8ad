package service

import (
	"context"

	"github.com/sajango/account-service/internal/domain"
	"github.com/sajango/account-service/internal/dto"
)

// AuthService defines the authentication flows
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error)
	OAuthLogin(ctx context.Context, provider domain.AuthProvider, idToken string) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	ValidateAccessToken(ctx context.Context, token string) (*domain.TokenClaims, error)
}

// UserService defines read/update operations on user records
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, limit, offset int) ([]*dto.UserResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
}

package service

import (
	"fmt"

	"github.com/sajango/account-service/internal/domain"
)

// issueTokenPair mints the access/refresh pair returned by every successful
// auth flow. Both tokens carry {sub, email, username} on the access side and
// just the subject on the refresh side.
func (s *authService) issueTokenPair(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

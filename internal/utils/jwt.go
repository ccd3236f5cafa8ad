package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sajango/account-service/internal/domain"
)

// JWTManager issues and verifies signed, time-boxed tokens. Tokens are
// stateless: validity is solely a function of signature and expiry.
type JWTManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
	}
}

// GenerateAccessToken generates a new access token carrying the user's
// identity claims.
func (j *JWTManager) GenerateAccessToken(userID, email, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"email":    email,
		"username": username,
		"exp":      now.Add(j.accessTokenExpiry).Unix(),
		"iat":      now.Unix(),
		"type":     string(domain.TokenTypeAccess),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken generates a new refresh token for the user.
func (j *JWTManager) GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"exp":  now.Add(j.refreshTokenExpiry).Unix(),
		"iat":  now.Unix(),
		"type": string(domain.TokenTypeRefresh),
		"jti":  uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates a token's signature and expiry, then checks that its
// type claim matches expected. A well-signed, unexpired token of the wrong
// type fails exactly like a malformed one: callers learn nothing about why
// verification failed.
func (j *JWTManager) VerifyToken(tokenString string, expected domain.TokenType) (*domain.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// The algorithm is pinned here; a token declaring a different
		// method in its header is never accepted.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	claims, err := claimsFromMap(mapClaims)
	if err != nil {
		return nil, err
	}

	if claims.IsExpired() {
		return nil, fmt.Errorf("token is expired")
	}

	if claims.Type != expected {
		return nil, fmt.Errorf("invalid token type")
	}

	return claims, nil
}

func claimsFromMap(m jwt.MapClaims) (*domain.TokenClaims, error) {
	sub, ok := m["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("invalid sub in token")
	}

	typ, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid type in token")
	}

	exp, ok := m["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp in token")
	}

	iat, ok := m["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat in token")
	}

	claims := &domain.TokenClaims{
		Subject: sub,
		Type:    domain.TokenType(typ),
		Exp:     int64(exp),
		Iat:     int64(iat),
	}

	// Optional identity claims; refresh tokens carry only the subject.
	if email, ok := m["email"].(string); ok {
		claims.Email = email
	}
	if username, ok := m["username"].(string); ok {
		claims.Username = username
	}

	return claims, nil
}

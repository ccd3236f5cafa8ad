package domain

import "time"

// TokenType discriminates access tokens from refresh tokens. Every token
// carries its type as a claim so one kind can never stand in for the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims represents the payload of a signed token.
type TokenClaims struct {
	Subject  string    `json:"sub"`
	Email    string    `json:"email,omitempty"`
	Username string    `json:"username,omitempty"`
	Type     TokenType `json:"type"`
	Exp      int64     `json:"exp"`
	Iat      int64     `json:"iat"`
}

// IsExpired checks if the token is expired.
func (tc TokenClaims) IsExpired() bool {
	return time.Now().Unix() > tc.Exp
}

// TokenPair represents a pair of access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

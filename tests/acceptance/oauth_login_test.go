package acceptance

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sajango/account-service/internal/domain"
	"github.com/sajango/account-service/internal/dto"
)

// providerKeys plays the role of an OAuth provider's signing infrastructure:
// a private RSA key the tests sign ID tokens with, plus a JWKS handler that
// publishes the matching public key.
type providerKeys struct {
	key *rsa.PrivateKey
	kid string
}

func newProviderKeys(t *testing.T) *providerKeys {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("Failed to generate RSA key: %v", err)
	}

	return &providerKeys{key: key, kid: "test-key-1"}
}

func (p *providerKeys) jwksHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pub := &p.key.PublicKey
		doc := map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": p.kid,
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(doc)
	})
}

func (p *providerKeys) signIDToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = p.kid

	signed, err := token.SignedString(p.key)
	if err != nil {
		t.Fatalf("Failed to sign ID token: %v", err)
	}
	return signed
}

func (s *Suite) googleIDToken(email, name, sub string) string {
	return s.Keys.signIDToken(s.T(), jwt.MapClaims{
		"iss":            "https://accounts.google.com",
		"aud":            googleClientID,
		"sub":            sub,
		"email":          email,
		"email_verified": true,
		"name":           name,
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	})
}

func (s *Suite) appleIDToken(email, sub string) string {
	return s.Keys.signIDToken(s.T(), jwt.MapClaims{
		"iss":            "https://appleid.apple.com",
		"aud":            appleClientID,
		"sub":            sub,
		"email":          email,
		"email_verified": "true",
		"iat":            time.Now().Unix(),
		"exp":            time.Now().Add(time.Hour).Unix(),
	})
}

func (s *Suite) oauthLogin(path, idToken string) *http.Response {
	body, _ := json.Marshal(dto.OAuthRequest{IDToken: idToken})

	resp, err := http.Post(
		s.BaseURL+path,
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestGoogleLogin_FirstSight() {
	idToken := s.googleIDToken("alice@example.com", "Alice Smith", "google-sub-1")

	resp := s.oauthLogin("/api/v1/auth/google", idToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pair))
	s.NotEmpty(pair.AccessToken)
	s.NotEmpty(pair.RefreshToken)
	s.Equal("bearer", pair.TokenType)

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))

	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()

	s.Equal(http.StatusOK, meResp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&userResp))

	s.Equal("alice@example.com", userResp.Email)
	s.Equal("alice", userResp.Username)
	s.Equal("Alice Smith", userResp.FullName)
	s.Equal("google", userResp.AuthProvider)
	s.True(userResp.IsVerified)
}

func (s *Suite) TestGoogleLogin_SecondLoginReusesAccount() {
	idToken := s.googleIDToken("bob@example.com", "Bob Jones", "google-sub-2")

	resp1 := s.oauthLogin("/api/v1/auth/google", idToken)
	resp1.Body.Close()
	s.Require().Equal(http.StatusOK, resp1.StatusCode)

	resp2 := s.oauthLogin("/api/v1/auth/google", idToken)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)

	var count int
	err := s.Postgres.DB.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, "bob@example.com").Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}

func (s *Suite) TestGoogleLogin_ProviderMismatch() {
	registerResp := s.register("taken@example.com", "takenuser", "Password123")
	registerResp.Body.Close()
	s.Require().Equal(http.StatusCreated, registerResp.StatusCode)

	idToken := s.googleIDToken("taken@example.com", "Impostor", "google-sub-3")

	resp := s.oauthLogin("/api/v1/auth/google", idToken)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestGoogleLogin_InvalidToken() {
	resp := s.oauthLogin("/api/v1/auth/google", "not-a-jwt")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGoogleLogin_WrongAudience() {
	idToken := s.Keys.signIDToken(s.T(), jwt.MapClaims{
		"iss":   "https://accounts.google.com",
		"aud":   "some-other-client",
		"sub":   "google-sub-4",
		"email": "aud@example.com",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	resp := s.oauthLogin("/api/v1/auth/google", idToken)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestAppleLogin_FirstSight() {
	idToken := s.appleIDToken("carol@example.com", "apple-sub-1")

	resp := s.oauthLogin("/api/v1/auth/apple", idToken)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pair))

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))

	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()

	s.Equal(http.StatusOK, meResp.StatusCode)

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&userResp))

	s.Equal("carol@example.com", userResp.Email)
	s.Equal("carol", userResp.Username)
	s.Equal("apple", userResp.AuthProvider)
	s.True(userResp.IsVerified)
}

func (s *Suite) TestGoogleLogin_UsernameCollisionGetsSuffix() {
	registerResp := s.register("dave.local@example.com", "dave", "Password123")
	registerResp.Body.Close()
	s.Require().Equal(http.StatusCreated, registerResp.StatusCode)

	idToken := s.googleIDToken("dave@example.com", "dave", "google-sub-5")

	resp := s.oauthLogin("/api/v1/auth/google", idToken)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&pair))

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))

	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()

	var userResp dto.UserResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&userResp))

	s.Equal("dave1", userResp.Username)
}

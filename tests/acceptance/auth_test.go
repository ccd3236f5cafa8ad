package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sajango/account-service/internal/domain"
	"github.com/sajango/account-service/internal/dto"
)

func (s *Suite) register(email, username, password string) *http.Response {
	reqBody := dto.RegisterRequest{
		Email:    email,
		Username: username,
		FullName: "Test User",
		Password: password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/register",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) login(email, password string) *http.Response {
	reqBody := dto.LoginRequest{
		Email:    email,
		Password: password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/login",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestRegister_Success() {
	resp := s.register("test@example.com", "testuser", "Password123")
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	var userResp dto.UserResponse
	err := json.NewDecoder(resp.Body).Decode(&userResp)
	s.Require().NoError(err)

	s.NotEmpty(userResp.ID)
	s.Equal("test@example.com", userResp.Email)
	s.Equal("testuser", userResp.Username)
	s.Equal("local", userResp.AuthProvider)
	s.True(userResp.IsActive)
	s.False(userResp.IsVerified)
}

func (s *Suite) TestRegister_DuplicateEmail() {
	resp1 := s.register("duplicate@example.com", "first", "Password123")
	resp1.Body.Close()
	s.Equal(http.StatusCreated, resp1.StatusCode)

	resp2 := s.register("duplicate@example.com", "second", "Password123")
	defer resp2.Body.Close()

	s.Equal(http.StatusConflict, resp2.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp2.Body).Decode(&errResp)
	s.Equal("Conflict", errResp.Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.register("invalid-email", "someuser", "Password123")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_ShortPassword() {
	resp := s.register("short@example.com", "someuser", "short")
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	registerResp := s.register("login@example.com", "loginuser", "Password123")
	registerResp.Body.Close()
	s.Require().Equal(http.StatusCreated, registerResp.StatusCode)

	resp := s.login("login@example.com", "Password123")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var pair domain.TokenPair
	err := json.NewDecoder(resp.Body).Decode(&pair)
	s.Require().NoError(err)

	s.NotEmpty(pair.AccessToken)
	s.NotEmpty(pair.RefreshToken)
	s.Equal("bearer", pair.TokenType)
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.login("nonexistent@example.com", "Password123")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	json.NewDecoder(resp.Body).Decode(&errResp)
	s.Equal("Unauthorized", errResp.Error)
}

func (s *Suite) TestLogin_WrongPassword() {
	registerResp := s.register("wrongpass@example.com", "wrongpass", "CorrectPassword123")
	registerResp.Body.Close()

	resp := s.login("wrongpass@example.com", "WrongPassword123")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_Success() {
	registerResp := s.register("getme@example.com", "getmeuser", "Password123")
	registerResp.Body.Close()

	loginResp := s.login("getme@example.com", "Password123")
	defer loginResp.Body.Close()

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&pair))

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserResponse
	err = json.NewDecoder(resp.Body).Decode(&userResp)
	s.Require().NoError(err)

	s.NotEmpty(userResp.ID)
	s.Equal("getme@example.com", userResp.Email)
	s.Equal("getmeuser", userResp.Username)
	s.NotZero(userResp.CreatedAt)
	s.NotZero(userResp.UpdatedAt)
}

func (s *Suite) TestGetMe_NoToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer invalid-token")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_RefreshTokenRejected() {
	registerResp := s.register("refreshme@example.com", "refreshme", "Password123")
	registerResp.Body.Close()

	loginResp := s.login("refreshme@example.com", "Password123")
	defer loginResp.Body.Close()

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&pair))

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.RefreshToken))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_Success() {
	registerResp := s.register("refresh@example.com", "refreshuser", "Password123")
	registerResp.Body.Close()

	loginResp := s.login("refresh@example.com", "Password123")
	defer loginResp.Body.Close()

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&pair))

	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/refresh",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var newPair domain.TokenPair
	err = json.NewDecoder(resp.Body).Decode(&newPair)
	s.Require().NoError(err)

	s.NotEmpty(newPair.AccessToken)
	s.NotEmpty(newPair.RefreshToken)
	s.Equal("bearer", newPair.TokenType)
}

func (s *Suite) TestRefresh_AccessTokenRejected() {
	registerResp := s.register("refreshwrong@example.com", "refreshwrong", "Password123")
	registerResp.Body.Close()

	loginResp := s.login("refreshwrong@example.com", "Password123")
	defer loginResp.Body.Close()

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&pair))

	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: pair.AccessToken})
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/refresh",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_MissingToken() {
	resp, err := http.Post(
		s.BaseURL+"/api/v1/auth/refresh",
		"application/json",
		bytes.NewBufferString(`{}`),
	)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestCompleteFlow() {
	email := "complete@example.com"
	password := "Password123"

	registerResp := s.register(email, "completeuser", password)
	defer registerResp.Body.Close()
	s.Equal(http.StatusCreated, registerResp.StatusCode)

	loginResp := s.login(email, password)
	defer loginResp.Body.Close()
	s.Equal(http.StatusOK, loginResp.StatusCode)

	var pair domain.TokenPair
	s.Require().NoError(json.NewDecoder(loginResp.Body).Decode(&pair))

	req, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", pair.AccessToken))
	meResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	body, _ := json.Marshal(dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	refreshResp, err := http.Post(
		s.BaseURL+"/api/v1/auth/refresh",
		"application/json",
		bytes.NewBuffer(body),
	)
	s.Require().NoError(err)
	defer refreshResp.Body.Close()
	s.Equal(http.StatusOK, refreshResp.StatusCode)

	var newPair domain.TokenPair
	s.Require().NoError(json.NewDecoder(refreshResp.Body).Decode(&newPair))

	meReq2, _ := http.NewRequest("GET", s.BaseURL+"/api/v1/auth/me", nil)
	meReq2.Header.Set("Authorization", fmt.Sprintf("Bearer %s", newPair.AccessToken))
	meResp2, err := http.DefaultClient.Do(meReq2)
	s.Require().NoError(err)
	defer meResp2.Body.Close()
	s.Equal(http.StatusOK, meResp2.StatusCode)
}

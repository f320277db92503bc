package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/photoshare/backend/internal/auth"
	"github.com/photoshare/backend/internal/users"
	"github.com/photoshare/backend/pkg/config"
	pkgerrors "github.com/photoshare/backend/pkg/errors"
)

type stubAuthService struct {
	loginResp    *auth.LoginResponse
	refreshResp  *auth.RefreshResponse
	err          error
	loggedOutJTI string
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	return s.loginResp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	return s.refreshResp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOutJTI = accessID
	return s.err
}

func TestAuthRegisterSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubAuthService{loginResp: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: userID, Username: "newcomer", Email: "new@example.com"},
	}}
	handler := AuthRegister(svc, nil)

	body := `{"username":"newcomer","email":"new@example.com","password":"a long password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "access-token" {
		t.Fatalf("unexpected access token %s", envelope.Data.AccessToken)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != userID {
		t.Fatalf("unexpected user payload %+v", envelope.Data.User)
	}
}

func TestAuthRegisterValidatesBody(t *testing.T) {
	t.Parallel()

	handler := AuthRegister(&stubAuthService{}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"username":"newcomer","password":"a long password"}`},
		{"bad email", `{"username":"newcomer","email":"nope","password":"a long password"}`},
		{"short password", `{"username":"newcomer","email":"a@b.com","password":"short"}`},
		{"short username", `{"username":"ab","email":"a@b.com","password":"a long password"}`},
		{"unknown field", `{"username":"newcomer","email":"a@b.com","password":"a long password","admin":true}`},
		{"not json", `{{`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte(tc.body)))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, req)

			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", resp.Code)
			}
		})
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"ghost@example.com","password":"whatever1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("unexpected message %s", envelope.Error.Message)
	}
}

func TestAuthRefreshSuccess(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{refreshResp: &auth.RefreshResponse{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
	}}
	handler := AuthRefresh(svc, nil)

	body := `{"access_token":"old-access","refresh_token":"old-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data auth.RefreshResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "new-access" || envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAuthLogoutRequiresBearer(t *testing.T) {
	t.Parallel()

	jwtCfg := config.JWTConfig{
		Secret:                 "controller-test-secret",
		Issuer:                 "photoshare-test",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 10080,
	}
	handler := AuthLogout(&stubAuthService{}, jwtCfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

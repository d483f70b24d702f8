package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"github.com/book2resell/server/internal/server/api"
	"github.com/book2resell/server/internal/server/config"
	"github.com/book2resell/server/internal/server/crypto"
	"github.com/book2resell/server/internal/server/middleware"
	"github.com/book2resell/server/internal/server/models"
	"github.com/book2resell/server/internal/server/service"
	svcmocks "github.com/book2resell/server/internal/server/service/mocks"
	serr "github.com/book2resell/server/internal/shared/errors"
	"github.com/book2resell/server/internal/shared/logger"
)

func testPasswordParams() crypto.PasswordParams {
	return crypto.PasswordParams{
		Hasher: crypto.HasherArgon2id,
		Argon2: crypto.Argon2Params{
			Time:      1,
			MemoryKiB: 32 * 1024,
			Threads:   1,
			KeyLen:    32,
			SaltLen:   16,
		},
	}
}

// NewTestHandler создаёт Handler с моками и конфигом через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, *svcmocks.MockUsersRepo, *svcmocks.MockBooksRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	users := svcmocks.NewMockUsersRepo(ctrl)
	books := svcmocks.NewMockBooksRepo(ctrl)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			Issuer:    "issuer",
			Audience:  "audience",
			AccessTTL: 1 * time.Minute,
			JWT: config.JWTConfig{
				Algorithm:  "HS256",
				SigningKey: "supersecretkeysupersecretkey123456", // >= 32
			},
		},
		Password: config.PasswordConfig{
			Hasher: "argon2id",
			Argon2: config.Argon2Config{
				Time:      1,
				MemoryKiB: 32 * 1024,
				Threads:   1,
				KeyLen:    32,
				SaltLen:   16,
			},
		},
	}

	svc := service.NewServices(service.Repositories{Users: users, Books: books}, cfg)

	auth := middleware.NewAuthenticator(crypto.JWTConfig{
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
		SigningKey: cfg.Auth.JWT.SigningKey,
		AccessTTL:  cfg.Auth.AccessTTL,
	}, users)
	log := logger.NewHTTPLogger()

	return api.NewHandler(svc, log, auth), users, books
}

// bearerFor выпускает валидный токен для email и настраивает мок
// так, чтобы RequireUser нашёл пользователя.
func bearerFor(t *testing.T, users *svcmocks.MockUsersRepo, user *models.User) string {
	t.Helper()

	token, err := crypto.NewAccessToken(user.Email, crypto.JWTConfig{
		Issuer:     "issuer",
		Audience:   "audience",
		SigningKey: "supersecretkeysupersecretkey123456",
		AccessTTL:  time.Minute,
	}, 0)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	users.EXPECT().
		GetByEmail(gomock.Any(), user.Email).
		Return(user, nil).
		AnyTimes()

	return "Bearer " + token
}

func TestHandler_Register_BadJSON(t *testing.T) {
	t.Parallel()

	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if rec.Body.String() == "" {
		t.Fatalf("expected error body, got empty")
	}
}

func TestHandler_Register_Success(t *testing.T) {
	t.Parallel()

	h, users, _ := NewTestHandler(t)

	email := "test@example.com"
	password := "StrongPass123"
	userID := uuid.New()

	users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, u models.User) (uuid.UUID, error) {
			if u.Email != email {
				t.Fatalf("expected email %q, got %q", email, u.Email)
			}
			if u.PasswordHash == "" || u.PasswordHash == password {
				t.Fatalf("expected hashed password, got %q", u.PasswordHash)
			}
			if u.IsAdmin {
				t.Fatal("register must not create admins")
			}
			return userID, nil
		})

	body, _ := json.Marshal(api.RegisterRequest{Name: "Test", Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected %d, got %d, body=%q", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var resp api.RegisterResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.UserID != userID.String() {
		t.Fatalf("expected user_id %q, got %q", userID.String(), resp.UserID)
	}
}

func TestHandler_Register_AlreadyExists(t *testing.T) {
	t.Parallel()

	h, users, _ := NewTestHandler(t)

	users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(uuid.Nil, serr.ErrAlreadyExists)

	body, _ := json.Marshal(api.RegisterRequest{Name: "Test", Email: "test@example.com", Password: "StrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestHandler_Register_InvalidInput(t *testing.T) {
	t.Parallel()

	h, _, _ := NewTestHandler(t)

	// короткий пароль
	body, _ := json.Marshal(api.RegisterRequest{Name: "Test", Email: "test@example.com", Password: "123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Login_BadJSON(t *testing.T) {
	t.Parallel()

	h, _, _ := NewTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{bad json"))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandler_Login_Success(t *testing.T) {
	t.Parallel()

	h, users, _ := NewTestHandler(t)

	email := "test@example.com"
	password := "StrongPass123"

	hash, err := crypto.HashPassword(password, testPasswordParams())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	users.EXPECT().
		GetByEmail(gomock.Any(), email).
		Return(&models.User{ID: uuid.New(), Email: email, PasswordHash: hash}, nil)

	body, _ := json.Marshal(api.LoginRequest{Email: email, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}

	var resp api.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatalf("expected non-empty access token, got %+v", resp)
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected token_type bearer, got %q", resp.TokenType)
	}
}

func TestHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h, users, _ := NewTestHandler(t)

	users.EXPECT().
		GetByEmail(gomock.Any(), "test@example.com").
		Return(nil, serr.ErrNotFound)

	body, _ := json.Marshal(api.LoginRequest{Email: "test@example.com", Password: "WrongPass123"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

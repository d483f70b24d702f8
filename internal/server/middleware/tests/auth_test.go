package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/crypto"
	"github.com/book2resell/server/internal/server/middleware"
	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// Стаб репозитория пользователей: отдаёт заранее заданных пользователей по email.
type stubUsers struct {
	byEmail map[string]*models.User
}

func (s *stubUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, serr.ErrNotFound
	}
	return u, nil
}

func testJWTConfig() crypto.JWTConfig {
	return crypto.JWTConfig{
		Issuer:     "book2resell",
		Audience:   "book2resell-web",
		SigningKey: "supersecretkeysupersecretkey123456",
		AccessTTL:  time.Minute,
	}
}

// Вспомогательная функция для JWT
func makeToken(t *testing.T, key, sub, iss, aud string, exp time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    iss,
		Audience:  []string{aud},
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// Успех
func TestRequireUser_OK(t *testing.T) {
	cfg := testJWTConfig()
	user := &models.User{ID: uuid.New(), Email: "seller@example.com", Name: "Seller"}
	users := &stubUsers{byEmail: map[string]*models.User{user.Email: user}}

	a := middleware.NewAuthenticator(cfg, users)

	token := makeToken(t, cfg.SigningKey, user.Email, cfg.Issuer, cfg.Audience, time.Now().Add(time.Minute))

	called := false
	handler := a.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true

		got, ok := middleware.UserFromContext(r.Context())
		if !ok {
			t.Fatal("user not found in context")
		}
		if got.ID != user.ID {
			t.Fatalf("unexpected user id: %v", got.ID)
		}

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if !called {
		t.Fatal("handler was not called")
	}
}

// Нет токена
func TestRequireUser_MissingToken(t *testing.T) {
	a := middleware.NewAuthenticator(testJWTConfig(), &stubUsers{})

	handler := a.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	assertJSONError(t, rr)
}

// Тело ошибки middleware — тот же JSON {"error": "..."}, что и у хендлеров
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()

	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %q", ct)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected non-empty error message")
	}
}

// Токен истёк
func TestRequireUser_Expired(t *testing.T) {
	cfg := testJWTConfig()
	a := middleware.NewAuthenticator(cfg, &stubUsers{})

	token := makeToken(t, cfg.SigningKey, "seller@example.com", cfg.Issuer, cfg.Audience, time.Now().Add(-time.Minute))

	handler := a.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	assertJSONError(t, rr)
}

// Токен подписан другим ключом
func TestRequireUser_WrongKey(t *testing.T) {
	cfg := testJWTConfig()
	a := middleware.NewAuthenticator(cfg, &stubUsers{})

	token := makeToken(t, "another-key-another-key-another12", "seller@example.com", cfg.Issuer, cfg.Audience, time.Now().Add(time.Minute))

	handler := a.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

// Валидный токен удалённого пользователя — fail closed.
func TestRequireUser_DeletedUser(t *testing.T) {
	cfg := testJWTConfig()
	a := middleware.NewAuthenticator(cfg, &stubUsers{byEmail: map[string]*models.User{}})

	token := makeToken(t, cfg.SigningKey, "gone@example.com", cfg.Issuer, cfg.Audience, time.Now().Add(time.Minute))

	handler := a.RequireUser()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

// Админ проходит, обычный пользователь — 403
func TestRequireAdmin(t *testing.T) {
	cfg := testJWTConfig()
	admin := &models.User{ID: uuid.New(), Email: "admin@example.com", IsAdmin: true}
	regular := &models.User{ID: uuid.New(), Email: "user@example.com"}
	users := &stubUsers{byEmail: map[string]*models.User{
		admin.Email:   admin,
		regular.Email: regular,
	}}

	a := middleware.NewAuthenticator(cfg, users)

	chain := a.RequireUser()(middleware.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	tests := []struct {
		email string
		want  int
	}{
		{admin.Email, http.StatusOK},
		{regular.Email, http.StatusForbidden},
	}

	for _, tt := range tests {
		token := makeToken(t, cfg.SigningKey, tt.email, cfg.Issuer, cfg.Audience, time.Now().Add(time.Minute))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		chain.ServeHTTP(rr, req)

		if rr.Code != tt.want {
			t.Errorf("%s: expected %d, got %d", tt.email, tt.want, rr.Code)
		}
		if tt.want == http.StatusForbidden {
			assertJSONError(t, rr)
		}
	}
}

// RequireAdmin без RequireUser в цепочке — 401
func TestRequireAdmin_NoUserInContext(t *testing.T) {
	handler := middleware.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

// Проверка форматов принимаемого токена
func TestExtractBearer(t *testing.T) {
	tests := []struct {
		hdr  string
		want string
	}{
		{"Bearer token", "token"},
		{"bearer token", "token"},
		{"Bearer    token", "token"},
		{"Token token", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := middleware.ExtractBearer(tt.hdr); got != tt.want {
			t.Errorf("ExtractBearer(%q) = %q, want %q", tt.hdr, got, tt.want)
		}
	}
}

// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/book2resell/server/internal/server/crypto"
	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// writeError отдаёт ошибку в том же JSON-формате {"error": "..."},
// что и хендлеры в api: тело ошибки одинаковое на всех слоях.
// Дублируется здесь, а не импортируется из api, чтобы не замыкать
// цикл пакетов (api использует middleware).
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(struct {
		Error string `json:"error"`
	}{Error: msg})
}

// ctxKey используется как тип ключа для хранения значений в context.Context.
// Отдельный тип предотвращает коллизии ключей между пакетами.
type ctxKey string

// userKey — ключ контекста, под которым хранится аутентифицированный пользователь.
const userKey ctxKey = "user"

// UserProvider — минимально нужное middleware от репозитория пользователей.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Authenticator — резолвер идентичности по bearer-токену.
//
// Используется в HTTP middleware для:
//   - проверки подписи и срока жизни токена;
//   - загрузки пользователя по subject (email) из claims;
//   - fail closed: валидный токен удалённого пользователя — это 401,
//     гостевая идентичность не подставляется.
type Authenticator struct {
	jwt   crypto.JWTConfig
	users UserProvider
}

// NewAuthenticator создаёт новый Authenticator с заданными параметрами.
func NewAuthenticator(jwt crypto.JWTConfig, users UserProvider) *Authenticator {
	return &Authenticator{jwt: jwt, users: users}
}

// UserFromContext извлекает аутентифицированного пользователя из контекста.
//
// Возвращает:
//   - пользователя
//   - false, если пользователь не аутентифицирован
func UserFromContext(ctx context.Context) (*models.User, bool) {
	v := ctx.Value(userKey)
	u, ok := v.(*models.User)
	return u, ok
}

// RequireUser возвращает HTTP middleware для защищённых маршрутов.
//
// Middleware:
//   - ожидает заголовок Authorization: Bearer <token>
//   - валидирует подпись и claims токена
//   - загружает пользователя по email из claims.Subject
//   - сохраняет пользователя в context.Context
//
// В случае любой ошибки возвращает HTTP 401 Unauthorized.
// Причины (expired / invalid / неизвестный subject) различимы
// в теле ответа, но статус всегда один.
func (a *Authenticator) RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := ExtractBearer(r.Header.Get("Authorization"))
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			subject, err := crypto.ParseAccessToken(tokenStr, a.jwt)
			if err != nil {
				if errors.Is(err, serr.ErrTokenExpired) {
					writeError(w, http.StatusUnauthorized, serr.ErrTokenExpired.Error())
					return
				}
				writeError(w, http.StatusUnauthorized, serr.ErrTokenInvalid.Error())
				return
			}

			user, err := a.users.GetByEmail(r.Context(), subject)
			if err != nil {
				// пользователя уже нет (или база недоступна) — не пускаем
				writeError(w, http.StatusUnauthorized, serr.ErrUnauthorized.Error())
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin возвращает HTTP middleware, пропускающий только админов.
//
// Ставится в цепочку строго ПОСЛЕ RequireUser: сам токен здесь
// уже не проверяется, только флаг is_admin загруженного пользователя.
// Не-админ получает HTTP 403 Forbidden.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, serr.ErrUnauthorized.Error())
				return
			}
			if !user.IsAdmin {
				writeError(w, http.StatusForbidden, serr.ErrForbidden.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

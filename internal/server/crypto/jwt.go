// Package crypto содержит криптографические примитивы,
// используемые сервером book2resell.
//
// В частности, пакет отвечает за:
//   - хэширование и проверку паролей (argon2id / bcrypt);
//   - генерацию и проверку JWT access-токенов;
//   - настройку параметров токенов (issuer, audience, TTL);
//   - соблюдение требований безопасности (HS256, срок жизни).
package crypto

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	serr "github.com/book2resell/server/internal/shared/errors"
)

// JWTConfig описывает параметры генерации и проверки JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	// Смена ключа инвалидирует все ранее выданные токены.
	SigningKey string
	// AccessTTL — срок жизни access-токена.
	AccessTTL time.Duration
}

// NewAccessToken создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит стандартные RegisteredClaims:
//   - iss (Issuer)
//   - aud (Audience)
//   - sub (email пользователя)
//   - iat (IssuedAt)
//   - exp (ExpiresAt)
//
// Используется алгоритм подписи HS256.
// ttl == 0 означает "взять AccessTTL из конфига"; отрицательный ttl
// даёт уже истёкший токен (exp в прошлом).
// В случае ошибки подписи возвращается непустая ошибка.
func NewAccessToken(subject string, cfg JWTConfig, ttl time.Duration) (string, error) {
	now := time.Now()
	if ttl == 0 {
		ttl = cfg.AccessTTL
	}

	claims := jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		Audience:  []string{cfg.Audience},
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.SigningKey))
}

// ParseAccessToken проверяет подпись и срок жизни токена
// и возвращает subject (email пользователя).
//
// Причины отказа различаются (нужны для диагностики):
//   - ErrTokenExpired — exp в прошлом;
//   - ErrTokenInvalid — битый токен, неверная подпись,
//     неверный issuer или audience;
//   - ErrTokenNoSubject — в claims пустой sub.
//
// Caller (middleware) маппит любую из них в 401.
func ParseAccessToken(tokenStr string, cfg JWTConfig) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return []byte(cfg.SigningKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", serr.ErrTokenExpired
		}
		return "", serr.ErrTokenInvalid
	}

	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return "", serr.ErrTokenInvalid
	}

	if cfg.Audience != "" {
		ok := false
		for _, aud := range claims.Audience {
			if aud == cfg.Audience {
				ok = true
				break
			}
		}
		if !ok {
			return "", serr.ErrTokenInvalid
		}
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", serr.ErrTokenNoSubject
	}

	return subject, nil
}

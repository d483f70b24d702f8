package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/config"
	"github.com/book2resell/server/internal/server/crypto"
	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// AuthService реализует бизнес-логику аутентификации.
//
// Ответственность:
//   - регистрация пользователей
//   - аутентификация (логин) и выпуск access-токена
//   - bootstrap админской учётки при старте сервера
//
// Токены нигде не хранятся: владение валидным неистёкшим токеном —
// это и есть доказательство идентичности. Logout — забыть токен на клиенте.
type AuthService struct {
	users UsersRepo

	pass crypto.PasswordParams
	jwt  crypto.JWTConfig
}

// NewAuthService создаёт AuthService с зависимостями и настройками из конфига.
func NewAuthService(users UsersRepo, cfg *config.Config) *AuthService {
	return &AuthService{
		users: users,

		pass: crypto.PasswordParams{
			Hasher: cfg.Password.Hasher,
			Argon2: crypto.Argon2Params{
				Time:      cfg.Password.Argon2.Time,
				MemoryKiB: cfg.Password.Argon2.MemoryKiB,
				Threads:   cfg.Password.Argon2.Threads,
				KeyLen:    cfg.Password.Argon2.KeyLen,
				SaltLen:   cfg.Password.Argon2.SaltLen,
			},
			BcryptCost: cfg.Password.Bcrypt.Cost,
		},
		jwt: crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.AccessTTL,
		},
	}
}

// RegisterInput — данные регистрации нового пользователя.
// Флага is_admin здесь нет намеренно: назначить админа через
// регистрацию нельзя ни при каких входных данных.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	College   *string
	ContactNo *string
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Register регистрирует нового пользователя.
//
// Валидация:
//   - name обязателен
//   - email обязателен и должен быть валидным
//   - пароль обязателен и длиной >= 6 символов
//
// Возвращает:
//   - id пользователя
//   - ErrInvalidInput при некорректных данных или ErrAlreadyExists если email уже зарегистрирован
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uuid.UUID, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Password = strings.TrimSpace(in.Password)

	if in.Name == "" || in.Email == "" || !emailRe.MatchString(in.Email) || len(in.Password) < 6 {
		return uuid.Nil, serr.ErrInvalidInput
	}

	hash, err := crypto.HashPassword(in.Password, s.pass)
	if err != nil {
		return uuid.Nil, serr.ErrInternal
	}

	return s.users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		College:      in.College,
		ContactNo:    in.ContactNo,
		IsAdmin:      false,
	})
}

// Login аутентифицирует пользователя и выдаёт access-токен.
//
// Поведение:
//   - не раскрывает факт существования email: что неизвестный email,
//     что неверный пароль — один и тот же ErrInvalidCredentials
//   - subject токена — email пользователя
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return "", serr.ErrInvalidInput
	}
	// получаем юзера по email
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email
		if errors.Is(err, serr.ErrNotFound) {
			return "", serr.ErrInvalidCredentials
		}
		return "", err
	}
	// проверяем пароль; битый хэш в базе — тоже generic-отказ
	ok, err := crypto.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", serr.ErrInvalidCredentials
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}
	// создаём новый access токен
	access, err := crypto.NewAccessToken(user.Email, s.jwt, 0)
	if err != nil {
		return "", serr.ErrInternal
	}

	return access, nil
}

// EnsureAdmin создаёт админскую учётку, если её ещё нет.
//
// Вызывается один раз при старте сервера (seed из конфига).
// Если пользователь с таким email уже существует — ничего не делает,
// существующая учётка не трогается.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return serr.ErrInvalidInput
	}

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, serr.ErrNotFound) {
		return err
	}

	hash, err := crypto.HashPassword(password, s.pass)
	if err != nil {
		return serr.ErrInternal
	}

	_, err = s.users.Create(ctx, models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	// гонка двух инстансов на старте: админа уже создали — это не ошибка
	if errors.Is(err, serr.ErrAlreadyExists) {
		return nil
	}
	return err
}

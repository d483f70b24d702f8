// Package service содержит бизнес-логику приложения (book2resell).
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/config"
	"github.com/book2resell/server/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users UsersRepo
	Books BooksRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth  *AuthService
	Books *BooksService
	Admin *AdminService
}

// NewServices собирает все сервисы приложения.
// cfg нужен AuthService (параметры хеширования пароля и подписи JWT).
func NewServices(repos Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:  NewAuthService(repos.Users, cfg),
		Books: NewBooksService(repos.Books),
		Admin: NewAdminService(repos.Users, repos.Books),
	}
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, u models.User) (uuid.UUID, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BooksRepo — репозиторий объявлений (CRUD + поиск).
type BooksRepo interface {
	Create(ctx context.Context, b models.Book) (uuid.UUID, time.Time, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error)
	List(ctx context.Context, f models.BookFilter) ([]models.Book, int, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Book, error)
	ListAll(ctx context.Context) ([]models.Book, error)
	Update(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}

package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
)

// AdminService — операции, доступные только админам.
//
// Вызывается из-под middleware RequireAdmin, поэтому сам флаг is_admin
// здесь повторно не проверяется. Политика владения тоже не применяется:
// админ удаляет любое объявление и любого пользователя.
type AdminService struct {
	users UsersRepo
	books BooksRepo
}

// NewAdminService создаёт новый AdminService.
func NewAdminService(users UsersRepo, books BooksRepo) *AdminService {
	return &AdminService{users: users, books: books}
}

// ListUsers возвращает всех пользователей.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// ListBooks возвращает все объявления.
func (s *AdminService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.books.ListAll(ctx)
}

// DeleteBook удаляет любое объявление без проверки владельца.
//
// Ошибки:
//   - ErrNotFound — объявления нет.
func (s *AdminService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.books.Delete(ctx, id)
}

// DeleteUser удаляет пользователя. Его объявления удаляются каскадом
// на уровне базы (FK ON DELETE CASCADE), висячих seller_id не остаётся.
//
// Ошибки:
//   - ErrNotFound — пользователя нет.
func (s *AdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

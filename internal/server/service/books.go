package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// Лимиты публичного поиска по объявлениям.
const (
	defaultListLimit = 24
	maxListLimit     = 100
)

// BooksService реализует бизнес-логику работы с объявлениями.
// Сервис:
//   - валидирует входные данные;
//   - применяет политику владения: менять и удалять объявление
//     может только его владелец (seller_id == actor.id);
//   - не знает о HTTP и БД напрямую.
type BooksService struct {
	repo BooksRepo
}

// NewBooksService создаёт новый BooksService.
func NewBooksService(repo BooksRepo) *BooksService {
	return &BooksService{repo: repo}
}

// CreateBookInput — данные нового объявления.
type CreateBookInput struct {
	Title       string
	Author      string
	Category    *string
	Price       float64
	Description *string
	ImageURL    *string
}

// Create создаёт новое объявление от имени actor.
//
// Владелец всегда назначается равным actor — проверка владения
// при создании не нужна по построению.
//
// Валидации:
//   - title и author не пустые;
//   - price >= 0.
//
// Ошибки:
//   - ErrInvalidInput — невалидные данные;
//   - ErrInternal — ошибка хранилища.
func (s *BooksService) Create(ctx context.Context, actor *models.User, in CreateBookInput) (*models.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)

	if in.Title == "" || in.Author == "" || in.Price < 0 {
		return nil, serr.ErrInvalidInput
	}

	book := models.Book{
		Title:       in.Title,
		Author:      in.Author,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		SellerID:    actor.ID,
	}

	id, createdAt, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, err
	}

	book.ID = id
	book.CreatedAt = createdAt
	return &book, nil
}

// Get возвращает объявление по id. Чтение публичное, actor не нужен.
func (s *BooksService) Get(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List возвращает страницу объявлений по фильтру и общее число совпадений.
// Чтение публичное. Limit нормализуется в [1, maxListLimit].
func (s *BooksService) List(ctx context.Context, f models.BookFilter) ([]models.Book, int, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

// ListMine возвращает все объявления actor-а.
func (s *BooksService) ListMine(ctx context.Context, actor *models.User) ([]models.Book, error) {
	return s.repo.ListBySeller(ctx, actor.ID)
}

// Update применяет patch к объявлению.
//
// Порядок проверок фиксированный: сперва существование (ErrNotFound),
// потом владение (ErrForbidden). Иначе чужое объявление было бы
// неотличимо от несуществующего.
//
// Флаг is_admin здесь не смотрим: админ правит только свои объявления,
// админское удаление — отдельная операция в AdminService.
//
// Ошибки:
//   - ErrNotFound — объявления нет;
//   - ErrForbidden — actor не владелец;
//   - ErrInvalidInput — patch делает данные невалидными.
func (s *BooksService) Update(ctx context.Context, actor *models.User, id uuid.UUID, patch models.BookPatch) (*models.Book, error) {
	book, err := s.authorizeMutation(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated := patch.Apply(*book)
	updated.Title = strings.TrimSpace(updated.Title)
	updated.Author = strings.TrimSpace(updated.Author)
	if updated.Title == "" || updated.Author == "" || updated.Price < 0 {
		return nil, serr.ErrInvalidInput
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// Delete удаляет объявление actor-а. Проверки те же, что и в Update.
func (s *BooksService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	if _, err := s.authorizeMutation(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorizeMutation загружает объявление и проверяет право actor-а его менять.
// not found имеет приоритет над forbidden.
func (s *BooksService) authorizeMutation(ctx context.Context, actor *models.User, id uuid.UUID) (*models.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.SellerID != actor.ID {
		return nil, serr.ErrForbidden
	}
	return book, nil
}

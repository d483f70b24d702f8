package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// BooksRepository реализует доступ к хранилищу объявлений (PostgreSQL).
// Отвечает исключительно за сохранение и извлечение данных без бизнес-логики:
// проверка владельца выполняется выше, в service-слое.
type BooksRepository struct {
	db *sql.DB
}

// NewBooksRepository создаёт новый экземпляр BooksRepository.
func NewBooksRepository(db *sql.DB) *BooksRepository {
	return &BooksRepository{db: db}
}

const bookColumns = `id, title, author, category, price, description, image_url, seller_id, created_at`

// Create сохраняет новое объявление.
//
// seller_id уже проставлен service-слоем (владелец = автор запроса).
//
// Возвращает:
//   - id        — UUID созданного объявления
//   - createdAt — время создания
//
// Ошибки:
//   - ErrInternal — ошибка базы данных
func (r *BooksRepository) Create(ctx context.Context, b models.Book) (uuid.UUID, time.Time, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO books (title, author, category, price, description, image_url, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`,
		b.Title, b.Author, b.Category, b.Price, b.Description, b.ImageURL, b.SellerID,
	).Scan(&id, &createdAt)

	if err != nil {
		return uuid.Nil, time.Time{}, serr.ErrInternal
	}

	return id, createdAt, nil
}

func (r *BooksRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Book, error) {
	var b models.Book

	err := r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id=$1`,
		id,
	).Scan(
		&b.ID, &b.Title, &b.Author, &b.Category, &b.Price,
		&b.Description, &b.ImageURL, &b.SellerID, &b.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, serr.ErrNotFound
		}
		return nil, serr.ErrInternal
	}

	return &b, nil
}

// List возвращает страницу объявлений по фильтру и общее число совпадений.
//
// Query ищется по подстроке (ILIKE) в title/author/category,
// Category сравнивается точно. Новые объявления первыми.
func (r *BooksRepository) List(ctx context.Context, f models.BookFilter) ([]models.Book, int, error) {
	like := "%" + f.Query + "%"

	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM books
		WHERE ($1 = '' OR title ILIKE $2 OR author ILIKE $2 OR category ILIKE $2)
		  AND ($3 = '' OR category = $3)
	`, f.Query, like, f.Category).Scan(&total)
	if err != nil {
		return nil, 0, serr.ErrInternal
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE ($1 = '' OR title ILIKE $2 OR author ILIKE $2 OR category ILIKE $2)
		  AND ($3 = '' OR category = $3)
		ORDER BY created_at DESC
		OFFSET $4 LIMIT $5
	`, f.Query, like, f.Category, f.Offset, f.Limit)
	if err != nil {
		return nil, 0, serr.ErrInternal
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}

	return books, total, nil
}

// ListBySeller возвращает все объявления одного продавца, новые первыми.
func (r *BooksRepository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE seller_id=$1 ORDER BY created_at DESC`,
		sellerID,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	return scanBooks(rows)
}

// ListAll возвращает все объявления без фильтра (админский обзор).
func (r *BooksRepository) ListAll(ctx context.Context) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, serr.ErrInternal
	}
	defer rows.Close()

	return scanBooks(rows)
}

// Update перезаписывает изменяемые поля объявления целиком.
// Частичность обновления (patch) решается в service-слое до вызова.
func (r *BooksRepository) Update(ctx context.Context, b models.Book) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE books
		SET title=$1, author=$2, category=$3, price=$4, description=$5, image_url=$6
		WHERE id=$7
	`,
		b.Title, b.Author, b.Category, b.Price, b.Description, b.ImageURL, b.ID,
	)
	if err != nil {
		return serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}

	return nil
}

func (r *BooksRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id=$1`, id)
	if err != nil {
		return serr.ErrInternal
	}

	n, err := res.RowsAffected()
	if err != nil {
		return serr.ErrInternal
	}
	if n == 0 {
		return serr.ErrNotFound
	}

	return nil
}

func scanBooks(rows *sql.Rows) ([]models.Book, error) {
	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Category, &b.Price,
			&b.Description, &b.ImageURL, &b.SellerID, &b.CreatedAt,
		); err != nil {
			return nil, serr.ErrInternal
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, serr.ErrInternal
	}
	return books, nil
}

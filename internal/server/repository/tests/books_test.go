package tests

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
	"github.com/book2resell/server/internal/server/repository"
	serr "github.com/book2resell/server/internal/shared/errors"
)

func bookColumns() []string {
	return []string{"id", "title", "author", "category", "price", "description", "image_url", "seller_id", "created_at"}
}

func bookRow(rows *sqlmock.Rows, id, sellerID uuid.UUID, title string) *sqlmock.Rows {
	return rows.AddRow(id, title, "Author", nil, 250.0, nil, nil, sellerID, time.Now())
}

// Успех
func TestBooksRepository_Create_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()
	sellerID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs("SICP", "Abelson", nil, 250.0, nil, nil, sellerID).
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "created_at"}).AddRow(id, now),
		)

	gotID, gotCreated, err := repo.Create(context.Background(), models.Book{
		Title:    "SICP",
		Author:   "Abelson",
		Price:    250.0,
		SellerID: sellerID,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != id {
		t.Fatalf("expected %v, got %v", id, gotID)
	}
	if !gotCreated.Equal(now) {
		t.Fatalf("expected %v, got %v", now, gotCreated)
	}
}

// Ошибка сервера
func TestBooksRepository_Create_InternalError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	mock.ExpectQuery(`INSERT INTO books`).
		WillReturnError(sql.ErrConnDone)

	_, _, err := repo.Create(context.Background(), models.Book{Title: "SICP", Author: "Abelson"})

	if err != serr.ErrInternal {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

// поиск по id
func TestBooksRepository_GetByID_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()
	sellerID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM books WHERE id`).
		WithArgs(id).
		WillReturnRows(bookRow(sqlmock.NewRows(bookColumns()), id, sellerID, "SICP"))

	got, err := repo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != id || got.SellerID != sellerID || got.Title != "SICP" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

// не найден по id
func TestBooksRepository_GetByID_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM books WHERE id`).
		WithArgs(id).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), id)

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// поиск с фильтром и пагинацией
func TestBooksRepository_List_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	f := models.BookFilter{Query: "sicp", Offset: 0, Limit: 24}

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM books`).
		WithArgs("sicp", "%sicp%", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(bookColumns())
	bookRow(rows, uuid.New(), uuid.New(), "SICP")
	bookRow(rows, uuid.New(), uuid.New(), "SICP 2nd ed")

	mock.ExpectQuery(`SELECT (.+) FROM books`).
		WithArgs("sicp", "%sicp%", "", 0, 24).
		WillReturnRows(rows)

	books, total, err := repo.List(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total 2, got %d", total)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
}

// объявления одного продавца
func TestBooksRepository_ListBySeller_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	sellerID := uuid.New()

	rows := sqlmock.NewRows(bookColumns())
	bookRow(rows, uuid.New(), sellerID, "SICP")

	mock.ExpectQuery(`SELECT (.+) FROM books WHERE seller_id`).
		WithArgs(sellerID).
		WillReturnRows(rows)

	books, err := repo.ListBySeller(context.Background(), sellerID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(books) != 1 || books[0].SellerID != sellerID {
		t.Fatalf("unexpected result: %+v", books)
	}
}

// обновление
func TestBooksRepository_Update_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()

	mock.ExpectExec(`UPDATE books`).
		WithArgs("SICP", "Abelson", nil, 300.0, nil, nil, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), models.Book{
		ID:     id,
		Title:  "SICP",
		Author: "Abelson",
		Price:  300.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// обновление несуществующего объявления
func TestBooksRepository_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	mock.ExpectExec(`UPDATE books`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), models.Book{ID: uuid.New(), Title: "SICP", Author: "Abelson"})

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// удаление
func TestBooksRepository_Delete_OK(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM books`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// удаление несуществующего объявления
func TestBooksRepository_Delete_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := repository.NewBooksRepository(db)

	id := uuid.New()

	mock.ExpectExec(`DELETE FROM books`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id)

	if err != serr.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

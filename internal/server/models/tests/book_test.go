package tests

import (
	"testing"

	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
	"github.com/book2resell/server/internal/shared/utils"
)

// nil-поля patch-а не трогают книгу, не-nil перезаписывают
func TestBookPatch_Apply_Partial(t *testing.T) {
	orig := models.Book{
		ID:       uuid.New(),
		Title:    "SICP",
		Author:   "Abelson",
		Category: utils.Ptr("CS"),
		Price:    250,
		SellerID: uuid.New(),
	}

	patch := models.BookPatch{
		Price: utils.Ptr(300.0),
	}

	got := patch.Apply(orig)

	if got.Price != 300 {
		t.Fatalf("expected price 300, got %v", got.Price)
	}
	if got.Title != "SICP" || got.Author != "Abelson" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if got.Category == nil || *got.Category != "CS" {
		t.Fatalf("category changed: %+v", got.Category)
	}

	// исходная книга не модифицируется
	if orig.Price != 250 {
		t.Fatalf("original book modified: %+v", orig)
	}
}

// Пустой patch — книга без изменений
func TestBookPatch_Apply_Empty(t *testing.T) {
	orig := models.Book{
		ID:     uuid.New(),
		Title:  "SICP",
		Author: "Abelson",
		Price:  250,
	}

	got := models.BookPatch{}.Apply(orig)

	if got != orig {
		t.Fatalf("expected no changes, got %+v", got)
	}
}

// Не-nil указатель с пустым значением — это явная перезапись
func TestBookPatch_Apply_ExplicitOverwrite(t *testing.T) {
	orig := models.Book{
		Title:       "SICP",
		Author:      "Abelson",
		Description: utils.Ptr("old description"),
	}

	got := models.BookPatch{Description: utils.Ptr("")}.Apply(orig)

	if got.Description == nil || *got.Description != "" {
		t.Fatalf("expected overwritten description, got %+v", got.Description)
	}
}

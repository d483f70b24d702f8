// Серверная модель объявления о продаже книги
package models

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID       uuid.UUID
	Title    string
	Author   string
	Category *string
	Price    float64
	// Необязательное описание и ссылка на обложку
	Description *string
	ImageURL    *string
	// Владелец объявления. У книги ровно один владелец,
	// при удалении пользователя его книги удаляются каскадом (FK).
	SellerID  uuid.UUID
	CreatedAt time.Time
}

// BookPatch — частичное обновление объявления.
//
// nil — поле не трогаем, не-nil — перезаписываем.
// Применяется функцией Apply до записи в репозиторий.
type BookPatch struct {
	Title       *string
	Author      *string
	Category    *string
	Price       *float64
	Description *string
	ImageURL    *string
}

// Apply накладывает patch на книгу и возвращает результат.
// Исходная книга не модифицируется.
func (p BookPatch) Apply(b Book) Book {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Category != nil {
		b.Category = p.Category
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Description != nil {
		b.Description = p.Description
	}
	if p.ImageURL != nil {
		b.ImageURL = p.ImageURL
	}
	return b
}

// BookFilter — параметры публичного поиска по объявлениям.
type BookFilter struct {
	// Поиск по подстроке в title/author/category
	Query string
	// Точное совпадение категории
	Category string
	Offset   int
	Limit    int
}

// HTTP-хендлеры объявлений о продаже книг
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/middleware"
	"github.com/book2resell/server/internal/server/models"
	"github.com/book2resell/server/internal/server/service"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// BookResponse представление объявления в ответах API.
type BookResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    *string   `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// BooksListResponse страница публичного поиска.
type BooksListResponse struct {
	Items []BookResponse `json:"items"`
	Total int            `json:"total"`
}

// CreateBookRequest тело запроса создания объявления.
type CreateBookRequest struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    *string `json:"category,omitempty"`
	Price       float64 `json:"price"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// UpdateBookRequest тело частичного обновления объявления.
// Отсутствующее в JSON поле остаётся как было, присутствующее — перезаписывается.
type UpdateBookRequest struct {
	Title       *string  `json:"title,omitempty"`
	Author      *string  `json:"author,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

func toBookResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Price:       b.Price,
		Description: b.Description,
		ImageURL:    b.ImageURL,
		SellerID:    b.SellerID.String(),
		CreatedAt:   b.CreatedAt,
	}
}

func toBookResponses(books []models.Book) []BookResponse {
	items := make([]BookResponse, 0, len(books))
	for _, b := range books {
		items = append(items, toBookResponse(b))
	}
	return items
}

// ListBooks возвращает страницу объявлений. Доступно без токена.
//
// @Summary      List books
// @Description  Public listing search with optional filters and paging.
// @Tags         books
// @Produce      json
// @Param        q        query string false "Search in title/author/category"
// @Param        category query string false "Exact category"
// @Param        skip     query int    false "Offset"
// @Param        limit    query int    false "Page size (default 24)"
// @Success      200 {object} BooksListResponse
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books [get]
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	books, total, err := h.Svc.Books.List(r.Context(), models.BookFilter{
		Query:    q.Get("q"),
		Category: q.Get("category"),
		Offset:   skip,
		Limit:    limit,
	})
	if err != nil {
		h.Log.Logger.Sugar().Errorw("list books failed", "error", err)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	WriteJSON(w, http.StatusOK, BooksListResponse{
		Items: toBookResponses(books),
		Total: total,
	})
}

// GetBook возвращает одно объявление. Доступно без токена.
//
// @Summary      Get book
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID (UUID)"
// @Success      200 {object} BookResponse
// @Failure      400 {object} ErrorResponse "Bad book id"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books/{id} [get]
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	book, err := h.Svc.Books.Get(r.Context(), bookID)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("get book failed", "error", err, "book_id", bookID.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, toBookResponse(*book))
}

// CreateBook создаёт новое объявление от имени аутентифицированного пользователя.
//
// Владельцем всегда становится автор запроса.
//
// @Summary      Create book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBookRequest true "Create book request"
// @Success      201 {object} BookResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books [post]
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	book, err := h.Svc.Books.Create(r.Context(), actor, service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		default:
			h.Log.Logger.Sugar().Errorw("create book failed", "error", err, "user_id", actor.ID.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, toBookResponse(*book))
}

// UpdateBook частично обновляет объявление.
//
// Менять объявление может только его владелец; несуществующее объявление
// отдаёт 404 раньше, чем проверяется владение.
//
// @Summary      Update book
// @Description  Partial update: absent fields stay unchanged. Owner only.
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string            true "Book ID (UUID)"
// @Param        request body UpdateBookRequest true "Fields to update"
// @Success      200 {object} BookResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not the owner"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books/{id} [put]
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrBadJSON)
		return
	}

	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	book, err := h.Svc.Books.Update(r.Context(), actor, bookID, models.BookPatch{
		Title:       req.Title,
		Author:      req.Author,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		case errors.Is(err, serr.ErrForbidden):
			WriteError(w, http.StatusForbidden, serr.ErrForbidden)
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		default:
			h.Log.Logger.Sugar().Errorw(
				"update book failed",
				"error", err,
				"user_id", actor.ID.String(),
				"book_id", bookID.String(),
			)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	WriteJSON(w, http.StatusOK, toBookResponse(*book))
}

// DeleteBook удаляет объявление владельца.
//
// Это владельческий путь удаления: is_admin здесь не даёт никаких
// привилегий, админское удаление — отдельный маршрут /api/admin/books/{id}.
//
// @Summary      Delete book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Book ID (UUID)"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse "Bad book id"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not the owner"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books/{id} [delete]
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	if err := h.Svc.Books.Delete(r.Context(), actor, bookID); err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		case errors.Is(err, serr.ErrForbidden):
			WriteError(w, http.StatusForbidden, serr.ErrForbidden)
		default:
			h.Log.Logger.Sugar().Errorw(
				"delete book failed",
				"error", err,
				"user_id", actor.ID.String(),
				"book_id", bookID.String(),
			)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MyListings возвращает все объявления аутентифицированного пользователя.
//
// @Summary      My listings
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} BookResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/books/me/listings [get]
func (h *Handler) MyListings(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	books, err := h.Svc.Books.ListMine(r.Context(), actor)
	if err != nil {
		h.Log.Logger.Sugar().Errorw("my listings failed", "error", err, "user_id", actor.ID.String())
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	WriteJSON(w, http.StatusOK, toBookResponses(books))
}

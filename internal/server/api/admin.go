// HTTP-хендлеры админских операций
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/book2resell/server/internal/server/models"
	serr "github.com/book2resell/server/internal/shared/errors"
)

// UserResponse представление пользователя в админских ответах.
// Хэш пароля наружу не отдаётся никогда.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	College   *string   `json:"college,omitempty"`
	ContactNo *string   `json:"contact_no,omitempty"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		College:   u.College,
		ContactNo: u.ContactNo,
		IsAdmin:   u.IsAdmin,
		CreatedAt: u.CreatedAt,
	}
}

// AdminListUsers возвращает всех пользователей.
//
// @Summary      List all users (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} UserResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not an admin"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/users [get]
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Svc.Admin.ListUsers(r.Context())
	if err != nil {
		h.Log.Logger.Sugar().Errorw("admin list users failed", "error", err)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}

	WriteJSON(w, http.StatusOK, items)
}

// AdminListBooks возвращает все объявления.
//
// @Summary      List all books (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} BookResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not an admin"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/books [get]
func (h *Handler) AdminListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.Svc.Admin.ListBooks(r.Context())
	if err != nil {
		h.Log.Logger.Sugar().Errorw("admin list books failed", "error", err)
		WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		return
	}

	WriteJSON(w, http.StatusOK, toBookResponses(books))
}

// AdminDeleteBook удаляет любое объявление без проверки владельца.
//
// Админская власть тут полностью замещает владение: это отдельная
// операция, а не обход проверки во владельческом пути.
//
// @Summary      Delete any book (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Book ID (UUID)"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse "Bad book id"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not an admin"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/books/{id} [delete]
func (h *Handler) AdminDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	if err := h.Svc.Admin.DeleteBook(r.Context(), bookID); err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("admin delete book failed", "error", err, "book_id", bookID.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AdminDeleteUser удаляет пользователя вместе с его объявлениями (каскад).
//
// @Summary      Delete user (admin)
// @Description  Deletes a user; their listings are removed by FK cascade.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID (UUID)"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse "Bad user id"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      403 {object} ErrorResponse "Not an admin"
// @Failure      404 {object} ErrorResponse "Not found"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/admin/users/{id} [delete]
func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		return
	}

	if err := h.Svc.Admin.DeleteUser(r.Context(), userID); err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			WriteError(w, http.StatusNotFound, serr.ErrNotFound)
		default:
			h.Log.Logger.Sugar().Errorw("admin delete user failed", "error", err, "user_id", userID.String())
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

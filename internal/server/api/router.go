package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/book2resell/server/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования для всех запросов;
//   - публичные эндпоинты: регистрация/логин, чтение объявлений, health;
//   - группу защищённых JWT эндпоинтов (создание/правка/удаление объявлений);
//   - админскую группу: RequireAdmin ставится строго после RequireUser.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware())

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Get("/api/health", h.Health)

	// Публичные пути
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// Чтение объявлений публичное, токен не нужен
	r.Get("/api/books", h.ListBooks)
	r.Get("/api/books/{id}", h.GetBook)

	// защищённые пути
	r.Group(func(r chi.Router) {
		// проверка access токена + загрузка пользователя
		r.Use(h.Auth.RequireUser())

		r.Post("/api/books", h.CreateBook)            // создание объявления, владелец = автор запроса
		r.Get("/api/books/me/listings", h.MyListings) // свои объявления
		r.Put("/api/books/{id}", h.UpdateBook)        // только владелец
		r.Delete("/api/books/{id}", h.DeleteBook)     // только владелец, без админского обхода

		// админские пути: гейт is_admin поверх аутентификации
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/users", h.AdminListUsers)
			r.Get("/books", h.AdminListBooks)
			r.Delete("/books/{id}", h.AdminDeleteBook) // без проверки владельца
			r.Delete("/users/{id}", h.AdminDeleteUser) // книги удаляются каскадом
		})
	})

	return r
}

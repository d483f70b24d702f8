// Package api реализует HTTP-слой сервера book2resell.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения;
//   - подключение middleware (логирование, проверка JWT, админский гейт).
package api

import (
	"encoding/json"
	"net/http"

	"github.com/book2resell/server/internal/server/middleware"
	"github.com/book2resell/server/internal/server/service"
	"github.com/book2resell/server/internal/shared/logger"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// ErrorResponse стандартный формат ошибки API.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Auth: резолвер идентичности по bearer-токену (middleware).
//
// Методы Handler используются роутером для обработки HTTP-запросов.
type Handler struct {
	Svc  *service.Services
	Log  *logger.HTTPLogger
	Auth *middleware.Authenticator
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
//
// svc — набор сервисов приложения,
// log — логгер,
// auth — резолвер идентичности и middleware авторизации.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, auth *middleware.Authenticator) *Handler {
	return &Handler{
		Svc:  svc,
		Log:  log,
		Auth: auth,
	}
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: err.Error(),
	})
}

// WriteJSON сериализует ответ и проставляет статус.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// HealthResponse ответ health-проверки.
type HealthResponse struct {
	Status string `json:"status"`
}

// Health сообщает, что сервер жив.
//
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /api/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

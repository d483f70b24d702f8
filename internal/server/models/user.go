// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	// Необязательные поля профиля
	College   *string
	ContactNo *string
	// Флаг админа. Через HTTP API его выставить нельзя:
	// только seed при старте сервера или adminctl.
	IsAdmin   bool
	CreatedAt time.Time
}

// Утилитарные функции общего назначения
package utils

// Ptr возвращает указатель на значение.
// Нужен для опциональных полей моделей (category, description, patch):
// адрес литерала в Go взять нельзя.
func Ptr[T any](v T) *T {
	return &v
}

// Package storage определяет классы ошибок хранилища. Реализация на PostgreSQL
// находится в пакете repository; сервисы сопоставляют эти ошибки со своими.
package storage

import "errors"

var (
	// ErrNotFound запись с указанным ключом отсутствует.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrConstraint нарушено ограничение CHECK / NOT NULL.
	ErrConstraint = errors.New("constraint violation")
	// ErrOutOfRange результат не помещается в тип колонки.
	ErrOutOfRange = errors.New("value out of range")
	// ErrInsufficient условное изменение количества отклонено: остатка не хватает.
	ErrInsufficient = errors.New("insufficient quantity")
)

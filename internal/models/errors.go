package models

import (
	"errors"
	"fmt"
)

// Ошибки предметной области. Каждая ошибка сервисов сводится ровно к одной из них,
// всё остальное считается внутренней ошибкой.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrValidation         = errors.New("validation error")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// FieldError описывает отклонённое поле запроса.
// Текст ошибки безопасно показывать клиенту.
type FieldError struct {
	Kind   error // ErrValidation или ErrInvalidInput
	Field  string
	Reason string
}

// NewValidationError создаёт FieldError вида ErrValidation.
func NewValidationError(field, reason string) *FieldError {
	return &FieldError{Kind: ErrValidation, Field: field, Reason: reason}
}

// NewInvalidInput создаёт FieldError вида ErrInvalidInput.
func NewInvalidInput(field, reason string) *FieldError {
	return &FieldError{Kind: ErrInvalidInput, Field: field, Reason: reason}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

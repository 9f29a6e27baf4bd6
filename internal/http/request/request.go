// Package request разбирает общие части входящих запросов.
package request

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// SweetID читает числовой {id} из пути.
func SweetID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// BearerToken извлекает токен из заголовка Authorization.
// Пустая строка означает, что токен не передан.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// DecodeJSON читает тело запроса в v. Пустое тело допустимо, только если allowEmpty.
func DecodeJSON(r *http.Request, v any, allowEmpty bool) error {
	err := render.DecodeJSON(r.Body, v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	case errors.Is(err, io.EOF):
		return models.NewInvalidInput("body", "is required")
	default:
		return models.NewInvalidInput("body", "must be valid JSON")
	}
}

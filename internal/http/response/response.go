// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков и единственную точку перевода
// ошибок предметной области в HTTP-статусы.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Response описывает стандартную структуру успешного JSON-ответа.
type Response struct {
	Status string `json:"status" example:"OK"`
	Data   any    `json:"data"`
}

// ErrorResponse — структура ошибки. Используется и в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"name is required"`
}

// MessageWithSweet тело ответов удаления, покупки и пополнения.
type MessageWithSweet struct {
	Message string        `json:"message" example:"Purchase successful"`
	Sweet   *models.Sweet `json:"sweet"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// InternalErrorMessage отдаётся клиенту вместо текста внутренней ошибки.
const InternalErrorMessage = "internal server error"

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// statuses порядок важен только для наглядности: каждая ошибка сервисов
// оборачивает ровно один sentinel.
var statuses = []struct {
	err    error
	status int
}{
	{models.ErrInvalidInput, http.StatusBadRequest},
	{models.ErrValidation, http.StatusBadRequest},
	{models.ErrDuplicateEmail, http.StatusConflict},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrMissingToken, http.StatusUnauthorized},
	{models.ErrInvalidToken, http.StatusUnauthorized},
	{models.ErrExpiredToken, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrInsufficientStock, http.StatusBadRequest},
}

// FromError возвращает HTTP-статус и безопасное для клиента сообщение.
// Ошибки вне списка считаются внутренними: 500 без подробностей.
func FromError(err error) (int, string) {
	var fe *models.FieldError
	if errors.As(err, &fe) {
		for _, s := range statuses {
			if errors.Is(fe.Kind, s.err) {
				return s.status, fe.Error()
			}
		}
	}
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status, s.err.Error()
		}
	}
	return http.StatusInternalServerError, InternalErrorMessage
}

// RenderError пишет ответ с ошибкой. Внутренние ошибки логируются как Error,
// ошибки клиента как Info.
func RenderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	status, msg := FromError(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
	} else {
		log.Info("request rejected", slog.Int("status", status), sl.Err(err))
	}
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// RenderOK пишет успешный ответ с кодом status.
func RenderOK(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, StatusOKWithData(data))
}

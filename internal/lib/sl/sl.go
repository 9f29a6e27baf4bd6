// Package sl содержит вспомогательные функции для логгера slog.
package sl

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
)

// Err возвращает атрибут "error" с текстом ошибки.
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// ForRequest возвращает логгер с операцией и request_id текущего запроса.
func ForRequest(log *slog.Logger, op string, r *http.Request) *slog.Logger {
	return log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

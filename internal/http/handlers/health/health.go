// Package health отдаёт состояние сервиса и доступность базы данных.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
)

// Pinger проверяет соединение с хранилищем.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log    *slog.Logger
	db     Pinger
	now    func() time.Time
	budget time.Duration
}

func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log:    log,
		db:     db,
		now:    time.Now,
		budget: 2 * time.Second,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"
	log := sl.ForRequest(h.log, op, r)

	ctx, cancel := context.WithTimeout(r.Context(), h.budget)
	defer cancel()

	resp := response.StatusOKWithData(map[string]any{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
	code := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		log.Error("database ping failed", sl.Err(err))
		resp.Status = response.StatusError
		resp.Data.(map[string]any)["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	render.Status(r, code)
	render.JSON(w, r, resp)
}

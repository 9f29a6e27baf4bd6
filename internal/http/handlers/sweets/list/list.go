// Package list реализует HTTP-обработчик получения всего склада.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Service описывает интерфейс бизнес-логики получения списка.
type Service interface {
	List(ctx context.Context, claim models.Claim) ([]*models.Sweet, error)
}

// Handler обрабатывает GET /api/sweets.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список сладостей
// @Description Все позиции склада, отсортированные по имени.
// @Tags Sweets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]models.Sweet}
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /sweets [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.list"
	log := sl.ForRequest(h.log, op, r)

	sweets, err := h.service.List(r.Context(), middlewarectx.ClaimFromContext(r.Context()))
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Debug("sweets listed", slog.Int("count", len(sweets)))
	response.RenderOK(w, r, http.StatusOK, sweets)
}

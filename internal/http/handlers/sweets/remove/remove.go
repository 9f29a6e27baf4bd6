// Package remove реализует HTTP-обработчик удаления позиции.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/http/request"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Service описывает интерфейс бизнес-логики удаления.
type Service interface {
	Delete(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error)
}

// Handler обрабатывает DELETE /api/sweets/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удалить сладость
// @Tags Sweets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response{data=response.MessageWithSweet}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /sweets/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.remove"
	log := sl.ForRequest(h.log, op, r)

	id, err := request.SweetID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	sweet, err := h.service.Delete(r.Context(), middlewarectx.ClaimFromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusOK, response.MessageWithSweet{
		Message: "Sweet deleted successfully",
		Sweet:   sweet,
	})
}

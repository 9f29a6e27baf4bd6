// Package update реализует HTTP-обработчик полной замены полей позиции.
package update

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

// Service описывает интерфейс бизнес-логики обновления позиции.
type Service interface {
	Update(ctx context.Context, claim models.Claim, id int64, in models.SweetInput) (*models.Sweet, error)
}

// Handler обрабатывает PUT /api/sweets/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обновить сладость
// @Tags Sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body models.SweetInput true "Поля позиции"
// @Success 200 {object} response.Response{data=models.Sweet}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /sweets/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.update"
	log := sl.ForRequest(h.log, op, r)

	id, err := request.SweetID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	var in models.SweetInput
	if err := request.DecodeJSON(r, &in, false); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	sweet, err := h.service.Update(r.Context(), middlewarectx.ClaimFromContext(r.Context()), id, in)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusOK, sweet)
}

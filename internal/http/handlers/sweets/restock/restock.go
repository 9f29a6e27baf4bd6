// Package restock реализует HTTP-обработчик пополнения склада.
package restock

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/http/request"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/numeric"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Request тело запроса пополнения.
type Request struct {
	Quantity numeric.Loose `json:"quantity" swaggertype:"integer" example:"10"`
}

// Service описывает интерфейс бизнес-логики пополнения.
type Service interface {
	Restock(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, error)
}

// Handler обрабатывает POST /api/sweets/{id}/restock.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Пополнить остаток
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body Request true "Количество больше нуля"
// @Success 200 {object} response.Response{data=response.MessageWithSweet}
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /sweets/{id}/restock [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.restock"
	log := sl.ForRequest(h.log, op, r)

	id, err := request.SweetID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	var req Request
	if err := request.DecodeJSON(r, &req, true); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	sweet, err := h.service.Restock(r.Context(), middlewarectx.ClaimFromContext(r.Context()), id, req.Quantity)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusOK, response.MessageWithSweet{
		Message: "Restock successful",
		Sweet:   sweet,
	})
}

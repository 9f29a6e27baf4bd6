// Package purchase реализует HTTP-обработчик покупки.
//
// Тело запроса необязательно: без quantity покупается одна единица.
package purchase

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

// Request тело запроса покупки.
type Request struct {
	Quantity numeric.Loose `json:"quantity" swaggertype:"integer" example:"1"`
}

// Service описывает интерфейс бизнес-логики покупки.
type Service interface {
	Purchase(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, error)
}

// Handler обрабатывает POST /api/sweets/{id}/purchase.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Купить
// @Tags Inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param request body Request false "Количество, по умолчанию 1"
// @Success 200 {object} response.Response{data=response.MessageWithSweet}
// @Failure 400 {object} response.ErrorResponse "Некорректное количество или не хватает остатка"
// @Failure 404 {object} response.ErrorResponse
// @Router /sweets/{id}/purchase [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.purchase"
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

	sweet, err := h.service.Purchase(r.Context(), middlewarectx.ClaimFromContext(r.Context()), id, req.Quantity)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusOK, response.MessageWithSweet{
		Message: "Purchase successful",
		Sweet:   sweet,
	})
}

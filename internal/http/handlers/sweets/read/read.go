// Package read реализует HTTP-обработчик получения позиции по ID.
package read

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

// Service описывает интерфейс бизнес-логики чтения позиции.
type Service interface {
	Get(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error)
}

// Handler обрабатывает GET /api/sweets/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Позиция по ID
// @Tags Sweets
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} response.Response{data=models.Sweet}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /sweets/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.read"
	log := sl.ForRequest(h.log, op, r)

	id, err := request.SweetID(r)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	sweet, err := h.service.Get(r.Context(), middlewarectx.ClaimFromContext(r.Context()), id)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusOK, sweet)
}

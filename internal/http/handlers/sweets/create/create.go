// Package create реализует HTTP-обработчик добавления позиции на склад.
//
// Цена и количество принимаются числом или строкой; разбор и проверка
// выполняются в сервисе.
package create

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

// Service описывает интерфейс бизнес-логики создания позиции.
type Service interface {
	Create(ctx context.Context, claim models.Claim, in models.SweetInput) (*models.Sweet, error)
}

// Handler обрабатывает POST /api/sweets.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Добавить сладость
// @Tags Sweets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.SweetInput true "Поля позиции"
// @Success 201 {object} response.Response{data=models.Sweet}
// @Failure 400 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse "Требуется роль admin"
// @Router /sweets [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.create"
	log := sl.ForRequest(h.log, op, r)

	var in models.SweetInput
	if err := request.DecodeJSON(r, &in, false); err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	log.Debug("request body decoded", slog.Any("request", in))

	sweet, err := h.service.Create(r.Context(), middlewarectx.ClaimFromContext(r.Context()), in)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}
	response.RenderOK(w, r, http.StatusCreated, sweet)
}

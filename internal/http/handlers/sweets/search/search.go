// Package search реализует HTTP-обработчик поиска по складу.
//
// Параметры name и category ищутся подстрокой без учёта регистра,
// minPrice и maxPrice задают включительный диапазон цены.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Service описывает интерфейс бизнес-логики поиска.
type Service interface {
	Search(ctx context.Context, claim models.Claim, params models.SearchParams) ([]*models.Sweet, error)
}

// Handler обрабатывает GET /api/sweets/search.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск сладостей
// @Tags Sweets
// @Produce json
// @Security BearerAuth
// @Param name query string false "Подстрока имени"
// @Param category query string false "Подстрока категории"
// @Param minPrice query number false "Минимальная цена"
// @Param maxPrice query number false "Максимальная цена"
// @Success 200 {object} response.Response{data=[]models.Sweet}
// @Failure 400 {object} response.ErrorResponse "Некорректная цена"
// @Failure 401 {object} response.ErrorResponse
// @Router /sweets/search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.sweets.search"
	log := sl.ForRequest(h.log, op, r)

	q := r.URL.Query()
	params := models.SearchParams{
		Name:     q.Get("name"),
		Category: q.Get("category"),
		MinPrice: q.Get("minPrice"),
		MaxPrice: q.Get("maxPrice"),
	}

	sweets, err := h.service.Search(r.Context(), middlewarectx.ClaimFromContext(r.Context()), params)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Debug("sweets found", slog.Int("count", len(sweets)))
	response.RenderOK(w, r, http.StatusOK, sweets)
}

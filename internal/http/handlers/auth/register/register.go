// Package register реализует HTTP-обработчик регистрации покупателя.
//
// При успехе возвращает 201 с токеном и публичными данными пользователя.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/request"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Request — структура входных данных для регистрации.
type Request struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

// Service описывает регистрацию в сервисе аутентификации.
type Service interface {
	Register(ctx context.Context, email, password string) (*models.Session, error)
}

// Handler обрабатывает HTTP-запросы на регистрацию.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт покупателя и возвращает JWT.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email и пароль"
// @Success 201 {object} response.Response{data=models.Session}
// @Failure 400 {object} response.ErrorResponse "Не заполнены поля"
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.DecodeJSON(r, &req, false); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	session, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_id", session.User.ID))
	response.RenderOK(w, r, http.StatusCreated, session)
}

// Package login реализует HTTP-обработчик входа по email и паролю.
package login

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/request"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Session, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис аутентификации
}

// New создает новый экземпляр Handler с указанными логгером и сервисом аутентификации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю. Возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response{data=models.Session}
// @Failure 400 {object} response.ErrorResponse "Не заполнены поля"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := sl.ForRequest(h.log, op, r)

	var req Request
	if err := request.DecodeJSON(r, &req, false); err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.RenderError(w, r, log, err)
		return
	}

	log.Info("login success", slog.String("user_id", session.User.ID))
	response.RenderOK(w, r, http.StatusOK, session)
}

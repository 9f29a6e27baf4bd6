// Package middlewarectx содержит HTTP middleware приложения.
//
// JWTMiddleware проверяет bearer-токен в заголовке Authorization и кладёт claim
// вызывающего в контекст запроса. Обработчики достают его через ClaimFromContext
// и передают в сервис явно.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/sweet-shop/internal/http/request"
	"github.com/magabrotheeeer/sweet-shop/internal/http/response"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// ClaimKey ключ claim вызывающего в контексте.
const ClaimKey Key = "claim"

// Authenticator проверяет токен и возвращает claim.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Claim, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Без валидного токена запрос завершается 401 до вызова обработчика.
func JWTMiddleware(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := sl.ForRequest(log, op, r)

			claim, err := auth.Authenticate(r.Context(), request.BearerToken(r))
			if err != nil {
				response.RenderError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaim(r.Context(), claim)))
		})
	}
}

// WithClaim возвращает контекст с claim.
func WithClaim(ctx context.Context, claim models.Claim) context.Context {
	return context.WithValue(ctx, ClaimKey, claim)
}

// ClaimFromContext возвращает claim из контекста; нулевой claim, если его нет.
func ClaimFromContext(ctx context.Context) models.Claim {
	claim, _ := ctx.Value(ClaimKey).(models.Claim)
	return claim
}

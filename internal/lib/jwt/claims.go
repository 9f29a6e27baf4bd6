// Package jwt реализует выпуск и проверку сессионных токенов магазина.
//
// Токен подписывается HS256 и несёт идентификатор пользователя (sub) и его роль.
// Сервер не хранит токены: проверка сводится к подписи и сроку жизни.
package jwt

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// CustomClaims описывает содержимое сессионного токена.
type CustomClaims struct {
	Role                 models.Role `json:"role"` // Роль пользователя
	jwt.RegisteredClaims             // Subject = ID пользователя, ExpiresAt, IssuedAt
}

// Claim возвращает данные вызывающего для проверки прав.
func (c *CustomClaims) Claim() models.Claim {
	return models.Claim{UserID: c.Subject, Role: c.Role}
}

package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Maker описывает выпуск и разбор сессионных токенов.
type Maker interface {
	GenerateToken(userID string, role models.Role) (string, error)
	// ParseToken возвращает ErrMissingToken, ErrInvalidToken или ErrExpiredToken
	// из пакета models.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl подписывает токены секретным ключом и задаёт им время жизни.
type MakerImpl struct {
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// GenerateToken выпускает токен для пользователя с указанной ролью.
func (j *MakerImpl) GenerateToken(userID string, role models.Role) (string, error) {
	const op = "jwt.GenerateToken"
	now := j.now()
	claims := CustomClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken проверяет подпись и срок жизни токена.
func (j *MakerImpl) ParseToken(tokenStr string) (*CustomClaims, error) {
	const op = "jwt.ParseToken"
	if tokenStr == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrMissingToken)
	}

	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(_ *jwt.Token) (any, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%s: %w", op, models.ErrExpiredToken)
	case err != nil:
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrInvalidToken, err)
	case !token.Valid:
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}
	return claims, nil
}

// Package password хэширует и проверяет пароли пользователей с помощью bcrypt.
// Пароль в открытом виде нигде не сохраняется.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxBytes ограничение bcrypt на длину пароля в байтах.
const MaxBytes = 72

// Hasher хэширует пароли с заданной стоимостью bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создаёт Hasher. Стоимость вне допустимого диапазона заменяется на bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash возвращает bcrypt-хэш пароля.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// Compare возвращает nil, если пароль соответствует хэшу.
func (h *Hasher) Compare(hash, password string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

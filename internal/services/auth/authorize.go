package services

import (
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// Decision результат проверки прав.
type Decision int

const (
	// Forbidden нулевое значение: пока не доказано обратное, доступа нет.
	Forbidden Decision = iota
	Allowed
)

func (d Decision) String() string {
	if d == Allowed {
		return "allowed"
	}
	return "forbidden"
}

// Err возвращает models.ErrForbidden для Forbidden и nil для Allowed.
func (d Decision) Err() error {
	if d == Allowed {
		return nil
	}
	return models.ErrForbidden
}

// Authorize решает, может ли обладатель claim выполнить действие, требующее роль required.
// Администратор может всё, что может покупатель.
func Authorize(claim models.Claim, required models.Role) Decision {
	if claim.IsZero() || !claim.Role.Valid() {
		return Forbidden
	}
	switch required {
	case models.RoleCustomer:
		return Allowed
	case models.RoleAdmin:
		if claim.Role == models.RoleAdmin {
			return Allowed
		}
	}
	return Forbidden
}

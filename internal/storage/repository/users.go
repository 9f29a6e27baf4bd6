package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

// CreateUser сохраняет нового пользователя и возвращает его с датой создания.
// Занятый email возвращается как storage.ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"

	query := `INSERT INTO users (id, email, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING created_at`
	if err := s.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, string(user.Role)).Scan(&user.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	return &user, nil
}

// GetUserByEmail возвращает пользователя по email или storage.ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"

	query := `SELECT id, email, password_hash, role, created_at
			  FROM users
			  WHERE email = $1`
	var u models.User
	var role string
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return nil, classify(op, err)
	}
	u.Role = models.Role(role)
	if !u.Role.Valid() {
		return nil, fmt.Errorf("%s: unknown role %q", op, role)
	}
	return &u, nil
}

// Package models содержит доменные структуры магазина сладостей:
// пользователей, сессии, товары и ошибки предметной области.
package models

import "time"

// Role — роль пользователя.
type Role string

const (
	// RoleCustomer — покупатель, роль по умолчанию при регистрации.
	RoleCustomer Role = "customer"
	// RoleAdmin — администратор склада.
	RoleAdmin Role = "admin"
)

// Valid сообщает, известна ли роль системе.
func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// User представляет учётную запись в хранилище.
type User struct {
	ID           string    // UUID пользователя
	Email        string    // Уникальный email, регистр сохраняется
	PasswordHash string    // bcrypt-хэш пароля
	Role         Role      // customer или admin
	CreatedAt    time.Time // Дата регистрации
}

// PublicUser — представление пользователя, которое можно отдавать клиенту.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Public возвращает публичное представление пользователя без хэша пароля.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Claim — данные вызывающего, извлечённые из проверенного токена.
type Claim struct {
	UserID string
	Role   Role
}

// IsZero сообщает, что claim не был получен из токена.
func (c Claim) IsZero() bool {
	return c.UserID == "" && c.Role == ""
}

// Session — результат успешной регистрации или входа.
type Session struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

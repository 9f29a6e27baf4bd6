// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/password"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/validate"
	"github.com/magabrotheeeer/sweet-shop/internal/metrics"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
	"github.com/magabrotheeeer/sweet-shop/internal/storage"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя; занятый email даёт storage.ErrAlreadyExists.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByEmail возвращает пользователя или storage.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// PasswordHasher хэширует и сверяет пароли.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthService отвечает за регистрацию, вход и проверку JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	hasher   PasswordHasher
	validate *validate.Validator
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, hasher PasswordHasher, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		hasher:   hasher,
		validate: validate.New(),
		log:      log,
	}
}

func (s *AuthService) checkCredentials(email, pass string) (credentials, error) {
	c := credentials{Email: strings.TrimSpace(email), Password: pass}
	if err := s.validate.Struct(c, models.ErrInvalidInput); err != nil {
		return c, err
	}
	// validator считает руны, а bcrypt ограничен байтами.
	if len(c.Password) > password.MaxBytes {
		return c, models.NewInvalidInput("password", fmt.Sprintf("must be at most %d bytes", password.MaxBytes))
	}
	return c, nil
}

// Register создаёт покупателя и сразу выдаёт ему токен.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "services.auth.Register"
	session, err := s.createUser(ctx, op, email, password, models.RoleCustomer)
	metrics.AuthAttemptsTotal.WithLabelValues("register", authResult(err)).Inc()
	return session, err
}

// EnsureAdmin создаёт администратора, если пользователя с таким email ещё нет.
// Повторный вызов ничего не меняет.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	const op = "services.auth.EnsureAdmin"
	c, err := s.checkCredentials(email, password)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	existing, err := s.users.GetUserByEmail(ctx, c.Email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			s.log.Warn("bootstrap admin email belongs to a non-admin user", slog.String("email", c.Email))
		}
		return nil
	case !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.createUser(ctx, op, c.Email, c.Password, models.RoleAdmin)
	if errors.Is(err, models.ErrDuplicateEmail) {
		return nil
	}
	if err != nil {
		return err
	}
	s.log.Info("admin user created", slog.String("email", c.Email))
	return nil
}

func (s *AuthService) createUser(ctx context.Context, op, email, password string, role models.Role) (*models.Session, error) {
	c, err := s.checkCredentials(email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := s.hasher.Hash(c.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		Email:        c.Email,
		PasswordHash: hashed,
		Role:         role,
	})
	if errors.Is(err, storage.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.newSession(op, user)
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный пароль
// неразличимы для клиента.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "services.auth.Login"
	session, err := s.login(ctx, op, email, password)
	metrics.AuthAttemptsTotal.WithLabelValues("login", authResult(err)).Inc()
	return session, err
}

func (s *AuthService) login(ctx context.Context, op, email, password string) (*models.Session, error) {
	c, err := s.checkCredentials(email, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByEmail(ctx, c.Email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.hasher.Compare(user.PasswordHash, c.Password); err != nil {
		s.log.Debug("password mismatch", slog.String("user_id", user.ID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	return s.newSession(op, user)
}

func (s *AuthService) newSession(op string, user *models.User) (*models.Session, error) {
	token, err := s.jwtMaker.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.Session{Token: token, User: user.Public()}, nil
}

// Authenticate проверяет токен и возвращает claim вызывающего.
func (s *AuthService) Authenticate(_ context.Context, token string) (models.Claim, error) {
	const op = "services.auth.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return models.Claim{}, fmt.Errorf("%s: %w", op, err)
	}
	claim := claims.Claim()
	if claim.UserID == "" || !claim.Role.Valid() {
		return models.Claim{}, fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}
	return claim, nil
}

func authResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, models.ErrInvalidInput):
		return metrics.ResultInvalid
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrDuplicateEmail):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}

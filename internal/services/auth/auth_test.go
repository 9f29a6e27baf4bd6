package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/jwt"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/password"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
	services "github.com/magabrotheeeer/sweet-shop/internal/services/auth"
	"github.com/magabrotheeeer/sweet-shop/internal/storage"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if fn, ok := args.Get(0).(func(models.User) *models.User); ok {
		return fn(user), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testSecret = "test-secret"

func newService(repo *UserRepoMock) (*services.AuthService, *jwt.MakerImpl, *password.Hasher) {
	maker := jwt.NewJWTMaker(testSecret, time.Hour)
	hasher := password.NewHasher(bcrypt.MinCost)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewAuthService(repo, maker, hasher, log), maker, hasher
}

func echoUser(u models.User) *models.User {
	u.CreatedAt = time.Now()
	return &u
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantEmail  string
		wantErr    error
	}{
		{
			name:     "successful registration",
			email:    "  alice@example.com ",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "alice@example.com" &&
						user.ID != "" &&
						user.PasswordHash != "" &&
						user.PasswordHash != "password123" &&
						user.Role == models.RoleCustomer
				})).Return(echoUser, nil).Once()
			},
			wantEmail: "alice@example.com",
		},
		{
			name:     "duplicate email",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, storage.ErrAlreadyExists).Once()
			},
			wantErr: models.ErrDuplicateEmail,
		},
		{
			name:       "blank email",
			email:      "   ",
			password:   "password123",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
		{
			name:       "missing password",
			email:      "alice@example.com",
			password:   "",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
		{
			name:       "password longer than bcrypt limit",
			email:      "alice@example.com",
			password:   strings.Repeat("a", password.MaxBytes+1),
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
		{
			// 37 рун, но 74 байта
			name:       "multibyte password over byte limit",
			email:      "alice@example.com",
			password:   strings.Repeat("я", 37),
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
		{
			name:     "password at bcrypt limit",
			email:    "alice@example.com",
			password: strings.Repeat("a", password.MaxBytes),
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return(echoUser, nil).Once()
			},
			wantEmail: "alice@example.com",
		},
		{
			name:     "repository error",
			email:    "alice@example.com",
			password: "password123",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc, maker, _ := newService(repo)
			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, models.ErrDuplicateEmail) || errors.Is(tt.wantErr, models.ErrInvalidInput) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantEmail, got.User.Email)
				assert.Equal(t, models.RoleCustomer, got.User.Role)

				claims, err := maker.ParseToken(got.Token)
				require.NoError(t, err)
				assert.Equal(t, got.User.ID, claims.Subject)
				assert.Equal(t, models.RoleCustomer, claims.Role)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hash, err := password.NewHasher(bcrypt.MinCost).Hash(rawPassword)
	require.NoError(t, err)
	stored := &models.User{
		ID:           "6f1c2d34-0000-4000-8000-000000000001",
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "admin@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(stored, nil).Once()
			},
		},
		{
			name:     "wrong password",
			email:    "admin@example.com",
			password: "wrong",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(stored, nil).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, storage.ErrNotFound).Once()
			},
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name:       "missing fields",
			email:      "",
			password:   "",
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
		{
			name:       "password longer than bcrypt limit",
			email:      "admin@example.com",
			password:   strings.Repeat("a", password.MaxBytes+1),
			setupMocks: func(_ *UserRepoMock) {},
			wantErr:    models.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			svc, _, _ := newService(repo)
			tt.setupMocks(repo)

			got, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, got.Token)
				assert.Equal(t, stored.Public(), got.User)
			}
			repo.AssertExpectations(t)
		})
	}

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc, _, _ := newService(repo)
		repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(stored, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, "x@example.com").Return(nil, storage.ErrNotFound).Once()

		_, errWrong := svc.Login(context.Background(), "admin@example.com", "nope")
		_, errUnknown := svc.Login(context.Background(), "x@example.com", "nope")
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := new(UserRepoMock)
	svc, maker, _ := newService(repo)
	ctx := context.Background()

	token, err := maker.GenerateToken("user-1", models.RoleCustomer)
	require.NoError(t, err)
	claim, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, models.Claim{UserID: "user-1", Role: models.RoleCustomer}, claim)

	_, err = svc.Authenticate(ctx, "")
	assert.ErrorIs(t, err, models.ErrMissingToken)

	_, err = svc.Authenticate(ctx, "not.a.token")
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	foreign, err := jwt.NewJWTMaker("other-secret", time.Hour).GenerateToken("user-1", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, foreign)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	badRole, err := maker.GenerateToken("user-1", models.Role("root"))
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, badRole)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	noSubject, err := maker.GenerateToken("", models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, noSubject)
	assert.ErrorIs(t, err, models.ErrInvalidToken)

	expired, err := jwt.NewJWTMaker(testSecret, -time.Minute).GenerateToken("user-1", models.RoleCustomer)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, models.ErrExpiredToken)
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc, _, _ := newService(repo)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").Return(nil, storage.ErrNotFound).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "root@example.com" && u.Role == models.RoleAdmin
		})).Return(&models.User{ID: "a", Email: "root@example.com", Role: models.RoleAdmin}, nil).Once()

		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "secret"))
		repo.AssertExpectations(t)
	})

	t.Run("existing user is left alone", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc, _, _ := newService(repo)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").
			Return(&models.User{ID: "a", Email: "root@example.com", Role: models.RoleAdmin}, nil).Once()

		require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "secret"))
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("lost race is not an error", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc, _, _ := newService(repo)
		repo.On("GetUserByEmail", mock.Anything, "root@example.com").Return(nil, storage.ErrNotFound).Once()
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil, storage.ErrAlreadyExists).Once()

		assert.NoError(t, svc.EnsureAdmin(ctx, "root@example.com", "secret"))
	})

	t.Run("empty password", func(t *testing.T) {
		repo := new(UserRepoMock)
		svc, _, _ := newService(repo)
		assert.ErrorIs(t, svc.EnsureAdmin(ctx, "root@example.com", ""), models.ErrInvalidInput)
	})
}

func TestAuthorize(t *testing.T) {
	admin := models.Claim{UserID: "a", Role: models.RoleAdmin}
	customer := models.Claim{UserID: "c", Role: models.RoleCustomer}

	tests := []struct {
		name     string
		claim    models.Claim
		required models.Role
		want     services.Decision
	}{
		{"admin on admin action", admin, models.RoleAdmin, services.Allowed},
		{"admin on customer action", admin, models.RoleCustomer, services.Allowed},
		{"customer on customer action", customer, models.RoleCustomer, services.Allowed},
		{"customer on admin action", customer, models.RoleAdmin, services.Forbidden},
		{"zero claim", models.Claim{}, models.RoleCustomer, services.Forbidden},
		{"unknown role", models.Claim{UserID: "x", Role: "root"}, models.RoleCustomer, services.Forbidden},
		{"unknown required role", admin, models.Role("owner"), services.Forbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := services.Authorize(tt.claim, tt.required)
			assert.Equal(t, tt.want, got)
			if got == services.Forbidden {
				assert.ErrorIs(t, got.Err(), models.ErrForbidden)
			} else {
				assert.NoError(t, got.Err())
			}
		})
	}
}

package register

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, password string) (*models.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	session := &models.Session{
		Token: "jwt",
		User:  models.PublicUser{ID: "u-1", Email: "alice@example.com", Role: models.RoleCustomer},
	}

	tests := []struct {
		name       string
		body       string
		setupMock  func(m *AuthServiceMock)
		wantStatus int
		wantBody   string
	}{
		{
			name: "valid registration",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "pw").Return(session, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantBody:   `{"status":"OK","data":{"token":"jwt","user":{"id":"u-1","email":"alice@example.com","role":"customer"}}}`,
		},
		{
			name:       "invalid json body",
			body:       `not a json`,
			setupMock:  func(_ *AuthServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"body must be valid JSON"}`,
		},
		{
			name: "missing password",
			body: `{"email":"alice@example.com"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "").
					Return(nil, fmt.Errorf("op: %w", models.NewInvalidInput("password", "is required"))).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"password is required"}`,
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "pw").
					Return(nil, fmt.Errorf("op: %w", models.ErrDuplicateEmail)).Once()
			},
			wantStatus: http.StatusConflict,
			wantBody:   `{"status":"Error","error":"email already registered"}`,
		},
		{
			name: "store failure",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setupMock: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			New(newNoopLogger(), svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

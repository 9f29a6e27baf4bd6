package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, claim models.Claim) ([]*models.Sweet, error) {
	args := m.Called(ctx, claim)
	if res := args.Get(0); res != nil {
		return res.([]*models.Sweet), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	claim := models.Claim{UserID: "u-1", Role: models.RoleCustomer}
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "sweets listed",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, claim).Return([]*models.Sweet{{
					ID: 1, Name: "Toffee", Category: "Candy", Price: 125, Quantity: 3, CreatedAt: ts, UpdatedAt: ts,
				}}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody: `{"status":"OK","data":[{"id":1,"name":"Toffee","category":"Candy","price":1.25,"quantity":3,` +
				`"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}]}`,
		},
		{
			name: "empty inventory",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, claim).Return([]*models.Sweet{}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"OK","data":[]}`,
		},
		{
			name: "store failure",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, claim).Return(nil, errors.New("db error")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"status":"Error","error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
			req = req.WithContext(middlewarectx.WithClaim(req.Context(), claim))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

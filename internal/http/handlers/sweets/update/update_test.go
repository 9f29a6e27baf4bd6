package update

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Update(ctx context.Context, claim models.Claim, id int64, in models.SweetInput) (*models.Sweet, error) {
	args := m.Called(ctx, claim, id, in)
	if res := args.Get(0); res != nil {
		return res.(*models.Sweet), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := models.Claim{UserID: "a-1", Role: models.RoleAdmin}

	tests := []struct {
		name       string
		id         string
		body       string
		setupMock  func(m *MockService)
		wantStatus int
		wantBody   string
	}{
		{
			name: "updated",
			id:   "5",
			body: `{"name":"Dark Bar","category":"Chocolate","price":3.5,"quantity":"12"}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, admin, int64(5), mock.MatchedBy(func(in models.SweetInput) bool {
					return in.Name == "Dark Bar" && in.Price.Raw() == "3.5" && in.Quantity.Raw() == "12"
				})).Return(&models.Sweet{ID: 5, Name: "Dark Bar", Category: "Chocolate", Price: 350, Quantity: 12}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantBody:   `"price":3.50`,
		},
		{
			name: "unknown sweet",
			id:   "99",
			body: `{"name":"Dark Bar","category":"Chocolate","price":3.5,"quantity":12}`,
			setupMock: func(m *MockService) {
				m.On("Update", mock.Anything, admin, int64(99), mock.Anything).
					Return(nil, fmt.Errorf("op: %w", models.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantBody:   `{"status":"Error","error":"not found"}`,
		},
		{
			name:       "empty body",
			id:         "5",
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"body is required"}`,
		},
		{
			name:       "zero id",
			id:         "0",
			body:       `{}`,
			setupMock:  func(_ *MockService) {},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"Error","error":"id must be a positive integer"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			var body io.Reader = http.NoBody
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(http.MethodPut, "/api/sweets/"+tt.id, body)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			req = req.WithContext(middlewarectx.WithClaim(ctx, admin))

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			svc.AssertExpectations(t)
		})
	}
}

package middlewarectx_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/sweet-shop/internal/http/middlewarectx"
	"github.com/magabrotheeeer/sweet-shop/internal/metrics"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) Authenticate(ctx context.Context, token string) (models.Claim, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(models.Claim), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	customer := models.Claim{UserID: "u-1", Role: models.RoleCustomer}

	tests := []struct {
		name       string
		authHeader string
		setupMock  func(m *AuthenticatorMock)
		wantStatus int
		wantBody   string
		wantCalled bool
	}{
		{
			name:       "missing Authorization header",
			authHeader: "",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "").
					Return(models.Claim{}, fmt.Errorf("jwt: %w", models.ErrMissingToken)).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"status":"Error","error":"missing token"}`,
		},
		{
			name:       "basic scheme is not a bearer token",
			authHeader: "Basic abc",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "").
					Return(models.Claim{}, models.ErrMissingToken).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"status":"Error","error":"missing token"}`,
		},
		{
			name:       "expired token",
			authHeader: "Bearer old",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "old").
					Return(models.Claim{}, models.ErrExpiredToken).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"status":"Error","error":"token expired"}`,
		},
		{
			name:       "invalid token",
			authHeader: "Bearer forged",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "forged").
					Return(models.Claim{}, models.ErrInvalidToken).Once()
			},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"status":"Error","error":"invalid token"}`,
		},
		{
			name:       "valid token",
			authHeader: "Bearer good",
			setupMock: func(m *AuthenticatorMock) {
				m.On("Authenticate", mock.Anything, "good").Return(customer, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authMock := new(AuthenticatorMock)
			tt.setupMock(authMock)

			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				assert.Equal(t, customer, middlewarectx.ClaimFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})
			handler := middlewarectx.JWTMiddleware(authMock, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodGet, "/api/sweets", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			authMock.AssertExpectations(t)
		})
	}
}

func TestClaimFromContext_Empty(t *testing.T) {
	assert.True(t, middlewarectx.ClaimFromContext(context.Background()).IsZero())
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(0.001, 2)
	handler := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1002"), "same IP, other port")
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000"), "other clients are not affected")
}

func TestRateLimiter_Refills(t *testing.T) {
	limiter := middlewarectx.NewRateLimiter(10, 1)
	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))
	time.Sleep(150 * time.Millisecond)
	assert.True(t, limiter.Allow("a"))
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middlewarectx.MetricsMiddleware)
	r.Get("/api/sweets/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.CollectAndCount(metrics.HTTPRequestDuration)
	req := httptest.NewRequest(http.MethodGet, "/api/sweets/17", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	req = httptest.NewRequest(http.MethodGet, "/api/sweets/18", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, before+1, testutil.CollectAndCount(metrics.HTTPRequestDuration),
		"both ids share one series")
}

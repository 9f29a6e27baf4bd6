package request

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sweet-shop/internal/models"
)

func withID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestSweetID(t *testing.T) {
	r := withID(httptest.NewRequest(http.MethodGet, "/", nil), "42")
	id, err := SweetID(r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "", "0", "-3", "1.5", "99999999999999999999"} {
		_, err := SweetID(withID(httptest.NewRequest(http.MethodGet, "/", nil), raw))
		assert.ErrorIs(t, err, models.ErrValidation, raw)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def":  "abc.def",
		"bearer  abc.def": "abc.def",
		"Basic abc":       "",
		"":                "",
		"Bearer":          "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		assert.Equal(t, want, BearerToken(r), header)
	}
}

func TestDecodeJSON(t *testing.T) {
	var body struct {
		Email string `json:"email"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.c"}`))
	require.NoError(t, DecodeJSON(r, &body, false))
	assert.Equal(t, "a@b.c", body.Email)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.NoError(t, DecodeJSON(r, &body, true))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(r, &body, false), models.ErrInvalidInput)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
	assert.ErrorIs(t, DecodeJSON(r, &body, false), models.ErrInvalidInput)
}

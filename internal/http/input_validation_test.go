package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMalformedQueryParamsAreRejected(t *testing.T) {
	app, _ := newTestApp(t)
	cl := newClient(t, app)

	for _, path := range []string{
		"/api/v1/products?stock=BOGUS",
		"/api/v1/products?stock=IN_STOCK,",
		"/api/v1/products?sort=name",
		"/api/v1/products?category=" + strings.Repeat("x", 65),
		"/api/v1/products?category=cat%2F001",
		"/api/v1/categories/frecon-bags/products?sort=cheap",
	} {
		resp, body := cl.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Contains(t, string(body), `"error"`, path)
	}
}

func TestMalformedBodiesAreRejected(t *testing.T) {
	cl := loggedIn(t, "yamada@example.com")

	resp, _ := cl.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "../../etc", "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = cl.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "prod-001", "quantity": -3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = cl.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "prod-001", "quantity": "two"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, _ = cl.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "prod-001", "quantity": 1})
	resp, body := cl.do(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer": map[string]string{"name": "山田 太郎", "email": "not-an-email", "phoneNumber": "123"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	problems := decode[errorBody](t, body).Problems
	assert.NotEmpty(t, problems)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := newClient(t, app).do(http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)
	resp, body := newClient(t, app).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	h := decode[struct {
		OK           bool  `json:"ok"`
		StorageBytes int64 `json:"storageBytes"`
	}](t, body)
	assert.True(t, h.OK)
	assert.Positive(t, h.StorageBytes)
}

package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRateLimit(t *testing.T) {
	app, _ := newTestApp(t)
	logs := observeLogs(t)
	cl := newClient(t, app)

	for i := 0; i < 30; i++ {
		resp, _ := cl.do(http.MethodGet, "/api/v1/products?q=test", nil)
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "hit rate limit too early at %d", i)
	}
	resp, _ := cl.do(http.MethodGet, "/api/v1/products?q=test", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	entry(t, logs, "rate.search.hit")

	// other routes keep their own budget
	resp, _ = cl.do(http.MethodGet, "/api/v1/categories", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBodySizeLimit(t *testing.T) {
	app, _ := newTestApp(t)

	oversize := bytes.Repeat([]byte("A"), (1<<20)+10)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(oversize))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	// fasthttp may reject the body before a response is produced
	if err != nil {
		if strings.Contains(err.Error(), "body size exceeds") || strings.Contains(err.Error(), "too large") {
			return
		}
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

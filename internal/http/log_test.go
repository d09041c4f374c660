package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func entry(t *testing.T, logs *observer.ObservedLogs, action string) observer.LoggedEntry {
	t.Helper()
	found := logs.FilterMessage(action).All()
	require.NotEmpty(t, found, "expected %s log", action)
	return found[len(found)-1]
}

func TestAuthEventsAreLogged(t *testing.T) {
	app, _ := newTestApp(t)
	logs := observeLogs(t)
	cl := newClient(t, app)

	cl.login("yamada@example.com", "wrongpass!")
	fail := entry(t, logs, "auth.login.fail")
	assert.Equal(t, zapcore.WarnLevel, fail.Level)
	assert.Equal(t, "/api/v1/auth/login", fail.ContextMap()["path"])
	assert.NotEmpty(t, fail.ContextMap()["req_id"])
	assert.NotContains(t, fail.ContextMap()["fields"], "password")

	cl.login("yamada@example.com", "password123")
	ok := entry(t, logs, "auth.login.success")
	assert.Equal(t, "user-001", ok.ContextMap()["user_id"])
	fields, _ := ok.ContextMap()["fields"].(map[string]any)
	assert.Equal(t, true, fields["audit"])

	cl.do(http.MethodPost, "/api/v1/auth/logout", nil)
	entry(t, logs, "auth.logout")
}

func TestAccessDeniedIsLogged(t *testing.T) {
	app, _ := newTestApp(t)
	logs := observeLogs(t)

	newClient(t, app).do(http.MethodGet, "/api/v1/orders", nil)
	e := entry(t, logs, "access.denied.anonymous")
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "/api/v1/orders", e.ContextMap()["path"])
}

func TestOrderPlacementIsAudited(t *testing.T) {
	cl := loggedIn(t, "yamada@example.com")
	logs := observeLogs(t)

	cl.do(http.MethodPost, "/api/v1/cart/items", map[string]any{"productId": "prod-002", "quantity": 1})
	resp, _ := cl.do(http.MethodPost, "/api/v1/orders", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	e := entry(t, logs, "order.place")
	assert.Equal(t, "user-001", e.ContextMap()["user_id"])
	fields, _ := e.ContextMap()["fields"].(map[string]any)
	assert.EqualValues(t, 22000, fields["total"])
	assert.Equal(t, true, fields["audit"])
}

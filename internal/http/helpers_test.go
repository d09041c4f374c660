package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"kemstore/internal/config"
	"kemstore/internal/http/handlers"
	"kemstore/internal/kv"
	applog "kemstore/internal/log"
)

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		KVBackend:         "sqlite",
		DBDSN:             ":memory:",
		BcryptCost:        bcrypt.MinCost,
		OrderHistoryLimit: 50,
	}
}

// newTestApp builds the full app over an in-memory store seeded with the
// demo data.
func newTestApp(t *testing.T) (*fiber.App, *handlers.Deps) {
	t.Helper()
	return newTestAppWith(t, testConfig())
}

func newTestAppWith(t *testing.T, cfg config.Config) (*fiber.App, *handlers.Deps) {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	deps := handlers.NewDeps(kv.NewStorage(st, zap.NewNop()), cfg, zap.NewNop())
	require.NoError(t, deps.Seeder.Initialize(context.Background()))
	return handlers.NewApp(cfg, deps), deps
}

// observeLogs routes the process logger into an observer for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	applog.SetLogger(zap.New(core))
	t.Cleanup(func() { applog.SetLogger(nil) })
	return logs
}

type client struct {
	t   *testing.T
	app *fiber.App
	sid string
}

func newClient(t *testing.T, app *fiber.App) *client {
	return &client{t: t, app: app}
}

// do sends body as JSON and keeps the sid cookie the server hands out.
func (cl *client) do(method, path string, body any) (*http.Response, []byte) {
	cl.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cl.sid != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cl.sid})
	}
	resp, err := cl.app.Test(req, -1)
	require.NoError(cl.t, err)
	for _, c := range resp.Cookies() {
		if c.Name == "sid" && c.Value != "" {
			cl.sid = c.Value
		}
	}
	out, err := io.ReadAll(resp.Body)
	require.NoError(cl.t, err)
	return resp, out
}

func (cl *client) login(email, password string) *http.Response {
	cl.t.Helper()
	resp, _ := cl.do(http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password})
	return resp
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

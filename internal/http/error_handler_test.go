package handlers_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kemstore/internal/http/handlers"
)

func newErrorApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Get("/err", func(c *fiber.Ctx) error {
		return errors.New("db timeout: secret trace")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("nil map in secret module")
	})
	app.Get("/gone", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not Found")
	})
	return app
}

func TestErrorHandlerFriendlyMessage(t *testing.T) {
	logs := observeLogs(t)
	app := newErrorApp()

	for _, path := range []string{"/err", "/panic"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode, path)
		body, _ := io.ReadAll(resp.Body)
		assert.Contains(t, string(body), "エラーが発生しました", path)
		assert.NotContains(t, string(body), "secret", path)
	}
	assert.Equal(t, 2, logs.FilterMessage("server.error").Len())
}

func TestErrorHandlerKeepsClientErrors(t *testing.T) {
	logs := observeLogs(t)
	resp, err := newErrorApp().Test(httptest.NewRequest("GET", "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Zero(t, logs.FilterMessage("server.error").Len())
}

package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"kemstore/internal/config"
	applog "kemstore/internal/log"
	"kemstore/web"
)

const bodyLimit = 1 << 20 // 1 MiB

// NewApp builds the HTTP API with its middlewares and routes.
func NewApp(cfg config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "kemstore",
		Views:        web.Engine(),
		BodyLimit:    bodyLimit,
		ErrorHandler: ErrorHandler,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	if cfg.Env != "test" {
		app.Use(logger.New())
	}
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "リクエストが多すぎます。しばらくしてから再度お試しください。"})
		},
	}))
	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "header:X-Csrf-Token",
			CookieName:     "csrf_",
			CookieSameSite: "Lax",
			CookieSecure:   cfg.CookieSecure,
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				applog.Security(c, "csrf.fail", map[string]any{"reason": err.Error()})
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "セキュリティチェックに失敗しました。ページを再読み込みしてください。"})
			},
		}))
	}
	app.Use(Sessions(deps.Auth, cfg.CookieSecure))

	// ---------- Routes ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true, "storageBytes": deps.Storage.Usage(c.UserContext())})
	})
	app.Get("/orders/:id/receipt", deps.OrderHandler.Receipt)

	api := app.Group("/api/v1")

	api.Get("/categories", deps.CategoryHandler.List)
	api.Get("/categories/:slug/products", deps.CategoryHandler.Products)
	api.Get("/products", limiter.New(limiter.Config{
		Max:        30,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|search"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.search.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "リクエストが多すぎます。しばらくしてから再度お試しください。"})
		},
	}), deps.SearchHandler.Search)
	api.Get("/products/:id", deps.ProductHandler.Detail)
	api.Get("/products/:id/related", deps.ProductHandler.Related)

	// Auth routes (login throttled)
	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "ログイン試行回数が上限に達しました。しばらくしてから再度お試しください。"})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/logout", deps.AuthHandler.Logout)
	auth.Get("/me", deps.AuthHandler.Me)

	// Cart
	cart := api.Group("/cart", RequireUser())
	cart.Get("/", deps.CartHandler.View)
	cart.Delete("/", deps.CartHandler.Clear)
	cart.Post("/items", deps.CartHandler.Add)
	cart.Put("/items/:productId", deps.CartHandler.Update)
	cart.Delete("/items/:productId", deps.CartHandler.Remove)

	// Favorites
	favs := api.Group("/favorites", RequireUser())
	favs.Get("/", deps.FavoritesHandler.List)
	favs.Post("/:productId/toggle", deps.FavoritesHandler.Toggle)
	favs.Put("/:productId", deps.FavoritesHandler.Save)
	favs.Delete("/:productId", deps.FavoritesHandler.Unsave)

	// Orders
	orders := api.Group("/orders", RequireUser())
	orders.Post("/", deps.OrderHandler.Place)
	orders.Get("/", deps.OrderHandler.History)
	orders.Get("/:id", deps.OrderHandler.View)

	// Profile
	profile := api.Group("/profile", RequireUser())
	profile.Put("/", deps.ProfileHandler.UpdateContact)
	profile.Post("/addresses", deps.ProfileHandler.AddAddress)
	profile.Delete("/addresses/:id", deps.ProfileHandler.RemoveAddress)
	profile.Post("/addresses/:id/default", deps.ProfileHandler.SetDefaultAddress)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ページが見つかりません。"})
	})
	return app
}

// ErrorHandler logs the failure and answers without leaking internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "エラーが発生しました。しばらくしてから再度お試しください。"
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code = fe.Code
		msg = fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

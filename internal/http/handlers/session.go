package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "kemstore/internal/log"
	"kemstore/internal/services"
)

const (
	sidCookie   = "sid"
	sessionKey  = "session"
	userIDLocal = "user_id"
)

func ensureSID(c *fiber.Ctx, secure bool) string {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err != nil {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     sidCookie,
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   secure,
		})
	}
	return sid
}

func expireSID(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   secure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}

// Sessions restores the caller's session from the sid cookie, issuing a new
// cookie when there is none.
func Sessions(auth *services.AuthService, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := ensureSID(c, secure)
		sess := auth.Restore(c.UserContext(), sid)
		c.Locals(sessionKey, sess)
		if sess.Authenticated() {
			c.Locals(userIDLocal, sess.UserID())
		}
		return c.Next()
	}
}

func session(c *fiber.Ctx) *services.Session {
	if sess, ok := c.Locals(sessionKey).(*services.Session); ok {
		return sess
	}
	return &services.Session{}
}

// RequireUser rejects anonymous callers with 401.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !session(c).Authenticated() {
			applog.Security(c, "access.denied.anonymous", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "ログインが必要です。"})
		}
		return c.Next()
	}
}

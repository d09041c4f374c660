package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Secure bool
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		log.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return fail(c, "auth.login", services.ErrBadCreds)
	}
	if !validate.Password(in.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "reason": "bad_password_format"})
		return fail(c, "auth.login", services.ErrBadCreds)
	}

	u, err := h.Auth.Login(c.UserContext(), session(c), email, in.Password)
	if err != nil {
		log.Security(c, "auth.login.fail", map[string]any{"email": email})
		return fail(c, "auth.login", err)
	}
	c.Locals(userIDLocal, u.ID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	u, err := h.Auth.Register(c.UserContext(), session(c), in.Email, in.Password)
	if err != nil {
		log.Security(c, "auth.register.fail", map[string]any{"email": in.Email, "reason": err.Error()})
		return fail(c, "auth.register", err)
	}
	c.Locals(userIDLocal, u.ID)
	log.Audit(c, "auth.register.success", map[string]any{"email": u.Email})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess := session(c)
	if err := h.Auth.Logout(c.UserContext(), sess); err != nil {
		return fail(c, "auth.logout", err)
	}
	expireSID(c, h.Secure)
	log.Audit(c, "auth.logout", map[string]any{"sid": sess.ID})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess := session(c)
	if !sess.Authenticated() {
		return fail(c, "auth.me", services.ErrNotAuthenticated)
	}
	return c.JSON(fiber.Map{"user": sess.User})
}

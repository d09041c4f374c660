package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"kemstore/internal/kv"
	applog "kemstore/internal/log"
	"kemstore/internal/services"
)

// fail maps a service error onto a status and a customer-facing message.
// Unexpected errors are logged and answered without internals.
func fail(c *fiber.Ctx, action string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "入力内容に誤りがあります。", "problems": verr.Problems})
	case errors.Is(err, services.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "ログインが必要です。"})
	case errors.Is(err, services.ErrBadCreds), errors.Is(err, services.ErrNoUsers):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "メールアドレスまたはパスワードが正しくありません。"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "このメールアドレスは既に登録されています。"})
	case errors.Is(err, services.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "数量は1以上で指定してください。"})
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "カートが空です。"})
	case errors.Is(err, services.ErrUnknownProduct):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "商品が見つかりません。"})
	case errors.Is(err, services.ErrOrderNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "注文が見つかりません。"})
	case errors.Is(err, services.ErrAddressNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "住所が見つかりません。"})
	case errors.Is(err, kv.ErrNotPersisted):
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "保存に失敗しました。時間をおいて再度お試しください。"})
	}
	applog.Error(c, action, err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "エラーが発生しました。"})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msg})
}

// render injects the session user into every template.
func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if sess := session(c); sess.Authenticated() {
		data["User"] = sess.User
	}
	return c.Render(tmpl, data)
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// Place checks out the caller's cart.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "リクエストの形式が正しくありません。")
		}
	}
	o, err := h.Orders.Checkout(c.UserContext(), session(c), req)
	if err != nil {
		return fail(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order": o.ID,
		"total": o.TotalAmount,
		"items": len(o.Items),
	})
	return c.Status(fiber.StatusCreated).JSON(o)
}

// History lists the caller's orders, newest first.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.List(c.UserContext(), session(c))
	if err != nil {
		return fail(c, "order.history.fail", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) View(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "注文が見つかりません。")
	}
	o, err := h.Orders.Get(c.UserContext(), session(c), id)
	if err != nil {
		return fail(c, "order.view.fail", err)
	}
	return c.JSON(o)
}

// Receipt renders a printable HTML receipt of one order.
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "注文が見つかりません。"})
	}
	o, err := h.Orders.Get(c.UserContext(), session(c), id)
	if err != nil {
		st := fiber.StatusNotFound
		switch {
		case errors.Is(err, services.ErrNotAuthenticated):
			st = fiber.StatusUnauthorized
		case !errors.Is(err, services.ErrOrderNotFound):
			applog.Error(c, "order.receipt.fail", err, map[string]any{"order": id})
			st = fiber.StatusInternalServerError
		}
		return c.Status(st).Render("notfound", fiber.Map{"Message": "注文が見つかりません。"})
	}
	return render(c, "receipt", fiber.Map{"Order": o, "Status": o.Status.Label()})
}

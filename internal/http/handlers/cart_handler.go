package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

type cartItemInput struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	cv, err := h.Cart.View(c.UserContext(), session(c))
	if err != nil {
		return fail(c, "cart.view", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	pid, ok := validate.ID(in.ProductID)
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if !validate.Quantity(in.Quantity) {
		return fail(c, "cart.add", services.ErrInvalidQuantity)
	}
	cv, err := h.Cart.AddItem(c.UserContext(), session(c), pid, in.Quantity)
	if err != nil {
		return fail(c, "cart.add", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product": pid, "qty": in.Quantity})
	return c.JSON(cv)
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	var in cartItemInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "リクエストの形式が正しくありません。")
	}
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	if !validate.Quantity(in.Quantity) {
		return fail(c, "cart.update", services.ErrInvalidQuantity)
	}
	cv, err := h.Cart.UpdateQuantity(c.UserContext(), session(c), pid, in.Quantity)
	if err != nil {
		return fail(c, "cart.update", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	cv, err := h.Cart.RemoveItem(c.UserContext(), session(c), pid)
	if err != nil {
		return fail(c, "cart.remove", err)
	}
	return c.JSON(cv)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	cv, err := h.Cart.Clear(c.UserContext(), session(c))
	if err != nil {
		return fail(c, "cart.clear", err)
	}
	applog.Info(c, "cart.clear", nil)
	return c.JSON(cv)
}

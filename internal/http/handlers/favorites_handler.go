package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type FavoritesHandler struct {
	Favorites *services.FavoritesService
}

func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	sess := session(c)
	return c.JSON(fiber.Map{
		"ids":      h.Favorites.List(c.UserContext(), sess),
		"products": h.Favorites.Products(c.UserContext(), sess),
	})
}

func (h *FavoritesHandler) Toggle(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	on, err := h.Favorites.Toggle(c.UserContext(), session(c), pid)
	if err != nil {
		return fail(c, "favorites.toggle.fail", err)
	}
	applog.Audit(c, "favorites.toggle", map[string]any{"product": pid, "favorite": on})
	return c.JSON(fiber.Map{"productId": pid, "favorite": on})
}

func (h *FavoritesHandler) Save(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	if err := h.Favorites.Add(c.UserContext(), session(c), pid); err != nil {
		return fail(c, "favorites.save.fail", err)
	}
	applog.Audit(c, "favorites.save", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"productId": pid, "favorite": true})
}

func (h *FavoritesHandler) Unsave(c *fiber.Ctx) error {
	pid, ok := validate.ID(c.Params("productId"))
	if !ok {
		return badRequest(c, "商品IDが正しくありません。")
	}
	if err := h.Favorites.Remove(c.UserContext(), session(c), pid); err != nil {
		return fail(c, "favorites.unsave.fail", err)
	}
	applog.Audit(c, "favorites.unsave", map[string]any{"product": pid})
	return c.JSON(fiber.Map{"productId": pid, "favorite": false})
}

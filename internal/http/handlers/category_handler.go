package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.Catalog.Categories()})
}

// Products lists a category's products, optionally sorted by price.
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	slug, ok := validate.Slug(c.Params("slug"))
	if !ok {
		return notFound(c, "カテゴリが見つかりません。")
	}
	cat, ps, ok := h.Catalog.ByCategorySlug(slug)
	if !ok {
		return notFound(c, "カテゴリが見つかりません。")
	}
	if s := c.Query("sort"); s != "" {
		s, ok := validate.Sort(s)
		if !ok {
			return badRequest(c, "並び順の指定が正しくありません。")
		}
		ps = services.SortByPrice(ps, s == services.SortPriceAsc)
	}
	return c.JSON(fiber.Map{"category": cat, "products": ps})
}

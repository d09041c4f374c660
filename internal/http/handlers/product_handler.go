package handlers

import (
	"github.com/gofiber/fiber/v2"

	"kemstore/internal/domain"
	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type ProductHandler struct {
	Catalog   *services.CatalogService
	Auth      *services.AuthService
	Favorites *services.FavoritesService
}

type productDetail struct {
	domain.Product
	PriceLabel string `json:"priceLabel"`
	StockLabel string `json:"stockLabel"`
	Favorite   bool   `json:"favorite"`
}

// Detail returns one product and records it as recently viewed for a
// logged-in caller.
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "この商品は現在取り扱っておりません。")
	}
	p, ok := h.Catalog.Product(id)
	if !ok {
		return notFound(c, "この商品は現在取り扱っておりません。")
	}
	sess := session(c)
	if err := h.Auth.RecordView(c.UserContext(), sess, p.ID); err != nil {
		applog.Error(c, "product.view.record.fail", err, map[string]any{"product": p.ID})
	}
	return c.JSON(productDetail{
		Product:    p,
		PriceLabel: domain.FormatYen(p.Price),
		StockLabel: p.StockStatus.Label(),
		Favorite:   h.Favorites.IsFavorite(c.UserContext(), sess, p.ID),
	})
}

func (h *ProductHandler) Related(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "この商品は現在取り扱っておりません。")
	}
	limit := c.QueryInt("limit", services.DefaultRelatedLimit)
	if limit < 1 || limit > 20 {
		limit = services.DefaultRelatedLimit
	}
	ps, ok := h.Catalog.Related(id, limit)
	if !ok {
		return notFound(c, "この商品は現在取り扱っておりません。")
	}
	return c.JSON(fiber.Map{"products": ps})
}

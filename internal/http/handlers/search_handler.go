package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"kemstore/internal/domain"
	applog "kemstore/internal/log"
	"kemstore/internal/services"
	"kemstore/internal/validate"
)

type SearchHandler struct {
	Catalog *services.CatalogService
}

// Search handles GET /api/v1/products?q=&category=&stock=&sort=.
// stock accepts a comma separated list of statuses.
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var q services.Query

	// a keyword that cleans down to nothing does not filter
	if s, ok := validate.Q(c.Query("q")); ok {
		q.Q = s
	}
	if raw := c.Query("category"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "カテゴリの指定が正しくありません。")
		}
		q.CategoryID = id
	}
	if raw := c.Query("stock"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			s, ok := validate.StockStatus(part)
			if !ok {
				applog.Security(c, "search.invalid_stock", map[string]any{"stock": raw})
				return badRequest(c, "在庫状況の指定が正しくありません。")
			}
			q.Stock = append(q.Stock, domain.StockStatus(s))
		}
	}
	if raw := c.Query("sort"); raw != "" {
		s, ok := validate.Sort(raw)
		if !ok {
			return badRequest(c, "並び順の指定が正しくありません。")
		}
		q.Sort = s
	}

	ps := h.Catalog.Search(q)
	return c.JSON(fiber.Map{"products": ps, "count": len(ps)})
}

package services

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"

	"kemstore/internal/domain"
	"kemstore/internal/repos"
)

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"

	DefaultRelatedLimit = 4
)

type CatalogService struct {
	Catalog *repos.CatalogRepo
	Shuffle func(n int, swap func(i, j int))
}

func NewCatalogService(catalog *repos.CatalogRepo) *CatalogService {
	return &CatalogService{Catalog: catalog, Shuffle: rand.Shuffle}
}

// Query narrows a product search. Zero fields do not filter.
type Query struct {
	Q          string
	CategoryID string
	Stock      []domain.StockStatus
	Sort       string
}

func (s *CatalogService) Categories() []domain.Category { return s.Catalog.Categories() }

func (s *CatalogService) CategoryBySlug(slug string) (domain.Category, bool) {
	return s.Catalog.CategoryBySlug(slug)
}

func (s *CatalogService) Product(id string) (domain.Product, bool) { return s.Catalog.Product(id) }

// Search matches the query case-insensitively against name, description,
// maker, SKU, usage tags and specifications.
func (s *CatalogService) Search(q Query) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	out := []domain.Product{}
	for _, p := range s.Catalog.Products() {
		if q.CategoryID != "" && !p.InCategory(q.CategoryID) {
			continue
		}
		if p.Matches(needle) {
			out = append(out, p)
		}
	}
	if len(q.Stock) > 0 {
		out = FilterByStock(out, q.Stock)
	}
	switch q.Sort {
	case SortPriceAsc:
		out = SortByPrice(out, true)
	case SortPriceDesc:
		out = SortByPrice(out, false)
	}
	return out
}

// SortByPrice returns a sorted copy; equal prices keep catalog order.
func SortByPrice(ps []domain.Product, asc bool) []domain.Product {
	out := slices.Clone(ps)
	slices.SortStableFunc(out, func(a, b domain.Product) int {
		if asc {
			return cmp.Compare(a.Price, b.Price)
		}
		return cmp.Compare(b.Price, a.Price)
	})
	return out
}

func FilterByStock(ps []domain.Product, statuses []domain.StockStatus) []domain.Product {
	out := []domain.Product{}
	for _, p := range ps {
		if slices.Contains(statuses, p.StockStatus) {
			out = append(out, p)
		}
	}
	return out
}

// FilterByCategoryNames keeps products in any category whose display name is
// listed.
func (s *CatalogService) FilterByCategoryNames(ps []domain.Product, names []string) []domain.Product {
	var ids []string
	for _, c := range s.Catalog.Categories() {
		if slices.Contains(names, c.Name) {
			ids = append(ids, c.ID)
		}
	}
	out := []domain.Product{}
	for _, p := range ps {
		if slices.ContainsFunc(p.CategoryIDs, func(id string) bool { return slices.Contains(ids, id) }) {
			out = append(out, p)
		}
	}
	return out
}

// Related prefers the product's explicit related ids. Without any, it picks
// other products sharing a category, in random order.
func (s *CatalogService) Related(id string, limit int) ([]domain.Product, bool) {
	p, ok := s.Catalog.Product(id)
	if !ok {
		return nil, false
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	out := []domain.Product{}
	if len(p.RelatedProductIDs) > 0 {
		for _, rid := range p.RelatedProductIDs {
			if rp, ok := s.Catalog.Product(rid); ok {
				out = append(out, rp)
			}
		}
	} else {
		for _, other := range s.Catalog.Products() {
			if other.ID == p.ID {
				continue
			}
			if slices.ContainsFunc(other.CategoryIDs, p.InCategory) {
				out = append(out, other)
			}
		}
		s.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, true
}

// ByCategorySlug lists the products of the category with the given slug.
func (s *CatalogService) ByCategorySlug(slug string) (domain.Category, []domain.Product, bool) {
	c, ok := s.Catalog.CategoryBySlug(slug)
	if !ok {
		return domain.Category{}, nil, false
	}
	return c, s.Search(Query{CategoryID: c.ID}), true
}

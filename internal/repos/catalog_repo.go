package repos

import (
	"embed"
	"encoding/json"
	"fmt"

	"kemstore/internal/domain"
)

//go:embed catalog/*.json
var catalogFS embed.FS

// CatalogRepo serves the read-only product and category reference data.
type CatalogRepo struct {
	products   []domain.Product
	categories []domain.Category
	byID       map[string]int
}

func NewCatalogRepo() (*CatalogRepo, error) {
	r := &CatalogRepo{byID: map[string]int{}}
	if err := readCatalog("catalog/products.json", &r.products); err != nil {
		return nil, err
	}
	if err := readCatalog("catalog/categories.json", &r.categories); err != nil {
		return nil, err
	}
	for i, p := range r.products {
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate product id %s", p.ID)
		}
		r.byID[p.ID] = i
	}
	return r, nil
}

// MustCatalogRepo panics when the embedded catalog is broken.
func MustCatalogRepo() *CatalogRepo {
	r, err := NewCatalogRepo()
	if err != nil {
		panic(err)
	}
	return r
}

func readCatalog(name string, v any) error {
	b, err := catalogFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("catalog: %s: %w", name, err)
	}
	return nil
}

// Products returns every product in catalog order. Callers must not modify
// the returned slice.
func (r *CatalogRepo) Products() []domain.Product { return r.products }

func (r *CatalogRepo) Categories() []domain.Category { return r.categories }

func (r *CatalogRepo) Product(id string) (domain.Product, bool) {
	i, ok := r.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return r.products[i], true
}

func (r *CatalogRepo) Category(id string) (domain.Category, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

func (r *CatalogRepo) CategoryBySlug(slug string) (domain.Category, bool) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}

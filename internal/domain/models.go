package domain

import (
	"strings"

	"github.com/dustin/go-humanize"
)

type Category struct {
	ID    string `json:"id"`   // cat-001
	Name  string `json:"name"`
	Slug  string `json:"slug"` // kebab-case, unique
	Image string `json:"image,omitempty"`
}

type StockStatus string

const (
	InStock    StockStatus = "IN_STOCK"
	LowStock   StockStatus = "LOW_STOCK"
	OutOfStock StockStatus = "OUT_OF_STOCK"
	OnOrder    StockStatus = "ON_ORDER"
)

func (s StockStatus) Valid() bool {
	switch s {
	case InStock, LowStock, OutOfStock, OnOrder:
		return true
	}
	return false
}

// Label is the storefront wording for the status.
func (s StockStatus) Label() string {
	switch s {
	case InStock:
		return "在庫あり"
	case LowStock:
		return "残りわずか"
	case OutOfStock:
		return "在庫切れ"
	case OnOrder:
		return "入荷待ち"
	}
	return string(s)
}

type Specification struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is immutable reference data. Price is tax-included yen.
type Product struct {
	ID                string          `json:"id"` // prod-001
	Name              string          `json:"name"`
	Price             int64           `json:"price"`
	CategoryIDs       []string        `json:"categoryIds"`
	Maker             string          `json:"maker,omitempty"`
	SKU               string          `json:"sku"`
	StockStatus       StockStatus     `json:"stockStatus"`
	Images            []string        `json:"images"`
	Description       string          `json:"description"`
	Usage             []string        `json:"usage,omitempty"`
	Specifications    []Specification `json:"specifications,omitempty"`
	RelatedProductIDs []string        `json:"relatedProductIds,omitempty"`
}

func (p Product) InCategory(categoryID string) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}

// Matches reports whether the lower-cased query q occurs in any searchable
// text of the product.
func (p Product) Matches(q string) bool {
	if q == "" {
		return true
	}
	contains := func(s string) bool { return strings.Contains(strings.ToLower(s), q) }
	if contains(p.Name) || contains(p.Description) || contains(p.Maker) || contains(p.SKU) {
		return true
	}
	for _, u := range p.Usage {
		if contains(u) {
			return true
		}
	}
	for _, s := range p.Specifications {
		if contains(s.Label) || contains(s.Value) {
			return true
		}
	}
	return false
}

// FormatYen renders a yen amount the way the storefront shows prices: ¥24,800.
func FormatYen(amount int64) string {
	return "¥" + humanize.Comma(amount)
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Cart holds at most one item per product.
type Cart struct {
	ID          string     `json:"id"` // cart-<uuid>
	Items       []CartItem `json:"items"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

func NewCart(now time.Time) Cart {
	return Cart{ID: "cart-" + uuid.NewString(), Items: []CartItem{}, LastUpdated: now}
}

// Find returns the index of the item for productID, or -1.
func (c Cart) Find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddOrUpdateItem sets the quantity of productID, appending a new item when the
// product is not in the cart yet.
func (c Cart) AddOrUpdateItem(productID string, quantity int, now time.Time) Cart {
	items := append([]CartItem(nil), c.Items...)
	if i := c.Find(productID); i >= 0 {
		items[i].Quantity = quantity
	} else {
		items = append(items, CartItem{ProductID: productID, Quantity: quantity, AddedAt: now})
	}
	c.Items = items
	c.LastUpdated = now
	return c
}

// MergeItem adds quantity to the existing item for productID, or appends one.
func (c Cart) MergeItem(productID string, quantity int, now time.Time) Cart {
	if i := c.Find(productID); i >= 0 {
		return c.AddOrUpdateItem(productID, c.Items[i].Quantity+quantity, now)
	}
	return c.AddOrUpdateItem(productID, quantity, now)
}

func (c Cart) RemoveItem(productID string, now time.Time) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	c.Items = items
	c.LastUpdated = now
	return c
}

func (c Cart) Clear(now time.Time) Cart {
	c.Items = []CartItem{}
	c.LastUpdated = now
	return c
}

package services

import (
	"context"
	"time"

	"kemstore/internal/domain"
	"kemstore/internal/repos"
	"kemstore/internal/validate"
)

type CartService struct {
	Carts   *repos.CartRepo
	Catalog *repos.CatalogRepo
	Now     func() time.Time
}

func NewCartService(carts *repos.CartRepo, catalog *repos.CatalogRepo) *CartService {
	return &CartService{Carts: carts, Catalog: catalog, Now: time.Now}
}

// CartLine is a cart item joined with the live catalog. Product is nil when
// the product has left the catalog; such a line has a zero subtotal.
type CartLine struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"addedAt"`
	Product   *domain.Product `json:"product"`
	Subtotal  int64           `json:"subtotal"`
}

type CartView struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	TotalPrice  int64      `json:"totalPrice"`
	TotalItems  int        `json:"totalItems"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

func (s *CartService) view(c domain.Cart) CartView {
	v := CartView{ID: c.ID, Lines: make([]CartLine, 0, len(c.Items)), LastUpdated: c.LastUpdated}
	for _, it := range c.Items {
		line := CartLine{ProductID: it.ProductID, Quantity: it.Quantity, AddedAt: it.AddedAt}
		if p, ok := s.Catalog.Product(it.ProductID); ok {
			line.Product = &p
			line.Subtotal = p.Price * int64(it.Quantity)
			v.TotalPrice += line.Subtotal
			v.TotalItems += it.Quantity
		}
		v.Lines = append(v.Lines, line)
	}
	return v
}

func (s *CartService) View(ctx context.Context, sess *Session) (CartView, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return CartView{}, err
	}
	return s.view(s.Carts.Load(ctx, uid)), nil
}

// AddItem adds qty of productID, merging into an existing line.
func (s *CartService) AddItem(ctx context.Context, sess *Session, productID string, qty int) (CartView, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return CartView{}, err
	}
	if !validate.Quantity(qty) {
		return CartView{}, ErrInvalidQuantity
	}
	if _, ok := s.Catalog.Product(productID); !ok {
		return CartView{}, ErrUnknownProduct
	}
	c, err := s.Carts.Mutate(ctx, uid, func(c domain.Cart) (domain.Cart, error) {
		next := c.MergeItem(productID, qty, s.Now())
		if !validate.Quantity(next.Items[next.Find(productID)].Quantity) {
			return c, ErrInvalidQuantity
		}
		return next, nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

// UpdateQuantity sets the quantity of an existing line. Unknown lines are
// left alone.
func (s *CartService) UpdateQuantity(ctx context.Context, sess *Session, productID string, qty int) (CartView, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return CartView{}, err
	}
	if !validate.Quantity(qty) {
		return CartView{}, ErrInvalidQuantity
	}
	c, err := s.Carts.Mutate(ctx, uid, func(c domain.Cart) (domain.Cart, error) {
		if c.Find(productID) < 0 {
			return c, nil
		}
		return c.AddOrUpdateItem(productID, qty, s.Now()), nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

func (s *CartService) RemoveItem(ctx context.Context, sess *Session, productID string) (CartView, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return CartView{}, err
	}
	c, err := s.Carts.Mutate(ctx, uid, func(c domain.Cart) (domain.Cart, error) {
		return c.RemoveItem(productID, s.Now()), nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

func (s *CartService) Clear(ctx context.Context, sess *Session) (CartView, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return CartView{}, err
	}
	c, err := s.Carts.Mutate(ctx, uid, func(c domain.Cart) (domain.Cart, error) {
		return c.Clear(s.Now()), nil
	})
	if err != nil {
		return CartView{}, err
	}
	return s.view(c), nil
}

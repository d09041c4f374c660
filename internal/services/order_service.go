package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"kemstore/internal/domain"
	applog "kemstore/internal/log"
	"kemstore/internal/repos"
)

// CheckoutRequest overrides what checkout would otherwise take from the
// user's profile. Customer and ShippingAddress win over AddressID.
type CheckoutRequest struct {
	Customer        *domain.Customer `json:"customer,omitempty"`
	ShippingAddress *domain.Address  `json:"shippingAddress,omitempty"`
	AddressID       string           `json:"addressId,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

type OrderService struct {
	Carts        *repos.CartRepo
	Orders       *repos.OrderRepo
	Catalog      *repos.CatalogRepo
	HistoryLimit int // newest orders kept per user, 0 keeps all
	Now          func() time.Time
}

func NewOrderService(carts *repos.CartRepo, orders *repos.OrderRepo, catalog *repos.CatalogRepo, historyLimit int) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Catalog: catalog, HistoryLimit: historyLimit, Now: time.Now}
}

// Checkout turns the session's cart into a PENDING order, snapshotting the
// current catalog prices, and removes the ordered lines from the cart.
func (s *OrderService) Checkout(ctx context.Context, sess *Session, req CheckoutRequest) (domain.Order, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return domain.Order{}, err
	}
	profile := *sess.User

	cart := s.Carts.Load(ctx, uid)
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		p, ok := s.Catalog.Product(it.ProductID)
		if !ok {
			continue
		}
		items = append(items, domain.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: it.Quantity})
	}
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	customer := domain.Customer{
		Name:        profile.Name,
		Email:       profile.Email,
		PhoneNumber: profile.PhoneNumber,
		CompanyName: profile.CompanyName,
	}
	if req.Customer != nil {
		customer = *req.Customer
	}

	var addr domain.Address
	switch {
	case req.ShippingAddress != nil:
		addr = *req.ShippingAddress
	case req.AddressID != "":
		a, ok := profile.Address(req.AddressID)
		if !ok {
			return domain.Order{}, ErrAddressNotFound
		}
		addr = a.OrderAddress()
	default:
		if a, ok := profile.DefaultAddress(); ok {
			addr = a.OrderAddress()
		}
	}

	now := s.Now()
	order := domain.Order{
		UserID:          uid,
		Items:           items,
		TotalAmount:     domain.SumItems(items),
		Customer:        customer,
		ShippingAddress: addr,
		Status:          domain.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
		Notes:           strings.TrimSpace(req.Notes),
	}
	// profile-derived contact details are taken as stored; only details
	// supplied with the request are checked
	problems := domain.ValidateOrderLines(order)
	if req.Customer != nil {
		problems = append(problems, domain.ValidateCustomer(customer)...)
	}
	if req.ShippingAddress != nil {
		problems = append(problems, domain.ValidateAddress(addr)...)
	}
	if len(problems) > 0 {
		return domain.Order{}, invalid(problems...)
	}

	_, err = s.Orders.Mutate(ctx, uid, func(orders []domain.Order) ([]domain.Order, error) {
		order.ID = nextOrderID(orders, now)
		orders = append(orders, order)
		if s.HistoryLimit > 0 && len(orders) > s.HistoryLimit {
			orders = orders[len(orders)-s.HistoryLimit:]
		}
		return orders, nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	// the order is placed; a cart that cannot be updated only keeps its lines
	if _, err := s.Carts.Mutate(ctx, uid, func(c domain.Cart) (domain.Cart, error) {
		return removeOrdered(c, cart.Items, s.Now()), nil
	}); err != nil {
		applog.L().Warn("checkout.cart.clear", zap.String("user_id", uid), zap.String("order", order.ID), zap.Error(err))
	}
	return order, nil
}

// removeOrdered takes the checked-out lines out of c. Quantity added after
// the snapshot was taken stays in the cart.
func removeOrdered(c domain.Cart, ordered []domain.CartItem, now time.Time) domain.Cart {
	for _, it := range ordered {
		i := c.Find(it.ProductID)
		if i < 0 {
			continue
		}
		if left := c.Items[i].Quantity - it.Quantity; left > 0 {
			c = c.AddOrUpdateItem(it.ProductID, left, now)
		} else {
			c = c.RemoveItem(it.ProductID, now)
		}
	}
	return c
}

// nextOrderID numbers orders per day: the first order placed today gets
// sequence 001.
func nextOrderID(orders []domain.Order, now time.Time) string {
	day := now.Format("20060102")
	seq := 1
	for _, o := range orders {
		if domain.OrderIDDate(o.ID) == day {
			seq++
		}
	}
	id := domain.GenerateOrderID(now, seq)
	for i := 0; i < 1000 && slices.ContainsFunc(orders, func(o domain.Order) bool { return o.ID == id }); i++ {
		seq++
		id = domain.GenerateOrderID(now, seq)
	}
	return id
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, sess *Session) ([]domain.Order, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return nil, err
	}
	orders := slices.Clone(s.Orders.List(ctx, uid))
	slices.SortStableFunc(orders, func(a, b domain.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, sess *Session, orderID string) (domain.Order, error) {
	uid, err := sess.requireUser()
	if err != nil {
		return domain.Order{}, err
	}
	return s.Orders.Get(ctx, uid, orderID)
}

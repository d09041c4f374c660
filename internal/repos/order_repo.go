package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
)

var ErrOrderNotFound = errors.New("order not found")

// legacyOrder is the flat shape the old checkout path wrote.
type legacyOrder struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Items  []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		UnitPrice int64  `json:"unitPrice"`
	} `json:"items"`
	TotalPrice int64     `json:"totalPrice"`
	OrderedAt  time.Time `json:"orderedAt"`
}

// OrderRepo keeps each user's order history, oldest first, under OrdersKey.
type OrderRepo struct {
	s       *kv.Storage
	catalog *CatalogRepo
	codec   kv.Codec[[]domain.Order]
}

func NewOrderRepo(s *kv.Storage, catalog *CatalogRepo) *OrderRepo {
	r := &OrderRepo{s: s, catalog: catalog}
	r.codec = kv.Codec[[]domain.Order]{Version: 1, Upgrade: r.upgrade}
	return r
}

// upgrade reads an unversioned order list. Entries carrying totalAmount are
// already in the unified shape; the rest are converted from legacyOrder.
func (r *OrderRepo) upgrade(_ int, raw json.RawMessage) ([]domain.Order, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0, len(entries))
	for i, e := range entries {
		var probe map[string]json.RawMessage
		if err := json.Unmarshal(e, &probe); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if _, unified := probe["totalAmount"]; unified {
			var o domain.Order
			if err := json.Unmarshal(e, &o); err != nil {
				return nil, fmt.Errorf("order %d: %w", i, err)
			}
			out = append(out, o)
			continue
		}
		var lo legacyOrder
		if err := json.Unmarshal(e, &lo); err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if lo.ID == "" {
			return nil, fmt.Errorf("order %d: missing id", i)
		}
		out = append(out, r.fromLegacy(lo))
	}
	return out, nil
}

func (r *OrderRepo) fromLegacy(lo legacyOrder) domain.Order {
	items := make([]domain.OrderItem, 0, len(lo.Items))
	for _, it := range lo.Items {
		name := it.ProductID
		if p, ok := r.catalog.Product(it.ProductID); ok {
			name = p.Name
		}
		items = append(items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      name,
			Price:     it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}
	return domain.Order{
		ID:          lo.ID,
		UserID:      lo.UserID,
		Items:       items,
		TotalAmount: domain.SumItems(items),
		Status:      domain.StatusConfirmed,
		CreatedAt:   lo.OrderedAt,
		UpdatedAt:   lo.OrderedAt,
	}
}

func noOrders() []domain.Order { return []domain.Order{} }

func (r *OrderRepo) Exists(ctx context.Context, userID string) bool {
	return r.s.Exists(ctx, OrdersKey(userID))
}

func (r *OrderRepo) List(ctx context.Context, userID string) []domain.Order {
	return r.codec.Load(ctx, r.s, OrdersKey(userID), noOrders())
}

func (r *OrderRepo) Get(ctx context.Context, userID, orderID string) (domain.Order, error) {
	for _, o := range r.List(ctx, userID) {
		if o.ID == orderID {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

func (r *OrderRepo) Save(ctx context.Context, userID string, orders []domain.Order) bool {
	return r.codec.Save(ctx, r.s, OrdersKey(userID), orders)
}

// Mutate atomically applies fn to the user's order history.
func (r *OrderRepo) Mutate(ctx context.Context, userID string, fn func([]domain.Order) ([]domain.Order, error)) ([]domain.Order, error) {
	return r.codec.Mutate(ctx, r.s, OrdersKey(userID), noOrders, fn)
}

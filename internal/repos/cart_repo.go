package repos

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
)

// CartRepo keeps one cart per user under CartKey.
type CartRepo struct {
	s     *kv.Storage
	codec kv.Codec[domain.Cart]
	now   func() time.Time
}

func NewCartRepo(s *kv.Storage) *CartRepo {
	r := &CartRepo{s: s, now: time.Now}
	r.codec = kv.Codec[domain.Cart]{Version: 1, Upgrade: r.upgrade}
	return r
}

// upgrade accepts the two legacy layouts: a bare item array and an
// unversioned cart object. Duplicate lines are merged.
func (r *CartRepo) upgrade(_ int, raw json.RawMessage) (domain.Cart, error) {
	now := r.now()
	var legacy domain.Cart
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		legacy = domain.NewCart(now)
		if err := json.Unmarshal(raw, &legacy.Items); err != nil {
			return domain.Cart{}, err
		}
	} else if err := json.Unmarshal(raw, &legacy); err != nil {
		return domain.Cart{}, err
	}
	if legacy.ID == "" {
		legacy.ID = domain.NewCart(now).ID
	}
	out := domain.Cart{ID: legacy.ID, Items: []domain.CartItem{}, LastUpdated: legacy.LastUpdated}
	for _, it := range legacy.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			continue
		}
		if i := out.Find(it.ProductID); i >= 0 {
			out.Items[i].Quantity += it.Quantity
			continue
		}
		if it.AddedAt.IsZero() {
			it.AddedAt = now
		}
		out.Items = append(out.Items, it)
	}
	if out.LastUpdated.IsZero() {
		out.LastUpdated = now
	}
	return out, nil
}

func (r *CartRepo) Exists(ctx context.Context, userID string) bool {
	return r.s.Exists(ctx, CartKey(userID))
}

// Load returns the user's cart, or a fresh unsaved one.
func (r *CartRepo) Load(ctx context.Context, userID string) domain.Cart {
	return r.codec.Load(ctx, r.s, CartKey(userID), domain.NewCart(r.now()))
}

func (r *CartRepo) Save(ctx context.Context, userID string, c domain.Cart) bool {
	return r.codec.Save(ctx, r.s, CartKey(userID), c)
}

// Mutate atomically applies fn to the user's cart.
func (r *CartRepo) Mutate(ctx context.Context, userID string, fn func(domain.Cart) (domain.Cart, error)) (domain.Cart, error) {
	return r.codec.Mutate(ctx, r.s, CartKey(userID), func() domain.Cart { return domain.NewCart(r.now()) }, fn)
}

package services

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
	"kemstore/internal/repos"
)

const seedPassword = "password123"

// Seeder fills an empty store with the demo users and, for every user still
// missing one, a cart, a favorites list and an order history.
type Seeder struct {
	Users     *repos.UserRepo
	Carts     *repos.CartRepo
	Favorites *repos.FavoritesRepo
	Orders    *repos.OrderRepo
	Catalog   *repos.CatalogRepo
	Cost      int
	Rand      *rand.Rand
	Now       func() time.Time
	Log       *zap.Logger
}

func NewSeeder(users *repos.UserRepo, carts *repos.CartRepo, favs *repos.FavoritesRepo,
	orders *repos.OrderRepo, catalog *repos.CatalogRepo, cost int, log *zap.Logger) *Seeder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Seeder{
		Users: users, Carts: carts, Favorites: favs, Orders: orders, Catalog: catalog,
		Cost: cost,
		Rand: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6b656d)),
		Now:  time.Now,
		Log:  log.Named("seed"),
	}
}

// Initialize is idempotent per key: nothing that already exists is
// overwritten.
func (s *Seeder) Initialize(ctx context.Context) error {
	if !s.Users.Exists(ctx) {
		users, err := s.demoUsers()
		if err != nil {
			return err
		}
		if !s.Users.SaveAll(ctx, users) {
			return fmt.Errorf("seed users: %w", kv.ErrNotPersisted)
		}
		s.Log.Info("users.seeded", zap.Int("count", len(users)))
	} else if err := s.Users.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	for _, u := range s.Users.List(ctx) {
		if !s.Carts.Exists(ctx, u.ID) {
			now := s.Now()
			cart := domain.NewCart(now)
			for _, p := range s.pick(2) {
				cart = cart.MergeItem(p.ID, s.Rand.IntN(3)+1, now)
			}
			if !s.Carts.Save(ctx, u.ID, cart) {
				return fmt.Errorf("seed cart %s: %w", u.ID, kv.ErrNotPersisted)
			}
		}
		if !s.Favorites.Exists(ctx, u.ID) {
			var ids []string
			for _, p := range s.pick(5) {
				ids = append(ids, p.ID)
			}
			if !s.Favorites.Save(ctx, u.ID, ids) {
				return fmt.Errorf("seed favorites %s: %w", u.ID, kv.ErrNotPersisted)
			}
		}
		if !s.Orders.Exists(ctx, u.ID) {
			now := s.Now()
			orders := []domain.Order{
				s.sampleOrder(u.UserProfile, now.AddDate(0, 0, -7), 2, domain.StatusDelivered),
				s.sampleOrder(u.UserProfile, now.AddDate(0, 0, -1), 3, domain.StatusShipped),
			}
			if !s.Orders.Save(ctx, u.ID, orders) {
				return fmt.Errorf("seed orders %s: %w", u.ID, kv.ErrNotPersisted)
			}
		}
		s.Log.Debug("user.seeded", zap.String("user_id", u.ID))
	}
	return nil
}

func (s *Seeder) demoUsers() ([]repos.StoredUser, error) {
	cost := s.Cost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cost)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	yamada := domain.UserProfile{
		ID:                     "user-001",
		Name:                   "山田 太郎",
		Email:                  "yamada@example.com",
		PhoneNumber:            "090-1234-5678",
		CompanyName:            "山田建設株式会社",
		Department:             "現場管理部",
		Position:               "工事課長",
		FavoriteCategories:     []string{"cat-001", "cat-002", "cat-004"},
		RecentlyViewedProducts: []string{"prod-001", "prod-004", "prod-007", "prod-013", "prod-016"},
		SavedAddresses: []domain.SavedAddress{
			{
				ID: "addr-001", Name: "会社", PostalCode: "100-0001", Prefecture: "東京都", City: "千代田区",
				AddressLine1: "丸の内1-1-1", AddressLine2: "丸の内ビル10F", PhoneNumber: "03-1234-5678", IsDefault: true,
			},
			{
				ID: "addr-002", Name: "現場事務所", PostalCode: "220-0012", Prefecture: "神奈川県", City: "横浜市西区",
				AddressLine1: "南幸町2-2-2", PhoneNumber: "045-123-4567",
			},
		},
		CreatedAt: time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC),
	}
	sato := domain.UserProfile{
		ID:        "user-002",
		Name:      "佐藤 次郎",
		Email:     "test@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return []repos.StoredUser{
		{UserProfile: yamada, PasswordHash: string(hash)},
		{UserProfile: sato, PasswordHash: string(hash)},
	}, nil
}

func (s *Seeder) pick(n int) []domain.Product {
	all := s.Catalog.Products()
	out := make([]domain.Product, 0, n)
	for _, i := range s.Rand.Perm(len(all)) {
		if len(out) == n {
			break
		}
		out = append(out, all[i])
	}
	return out
}

func (s *Seeder) sampleOrder(u domain.UserProfile, at time.Time, lines int, status domain.OrderStatus) domain.Order {
	items := make([]domain.OrderItem, 0, lines)
	for _, p := range s.pick(lines) {
		items = append(items, domain.OrderItem{ProductID: p.ID, Name: p.Name, Price: p.Price, Quantity: s.Rand.IntN(3) + 1})
	}
	var addr domain.Address
	if a, ok := u.DefaultAddress(); ok {
		addr = a.OrderAddress()
	}
	return domain.Order{
		ID:          domain.GenerateOrderID(at, 1),
		UserID:      u.ID,
		Items:       items,
		TotalAmount: domain.SumItems(items),
		Customer: domain.Customer{
			Name:        u.Name,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
			CompanyName: u.CompanyName,
		},
		ShippingAddress: addr,
		Status:          status,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
}

package services_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kemstore/internal/kv"
	"kemstore/internal/repos"
	"kemstore/internal/services"
)

var fixedNow = time.Date(2024, 5, 23, 9, 30, 0, 0, time.UTC)

type env struct {
	store     kv.Store
	storage   *kv.Storage
	users     *repos.UserRepo
	carts     *repos.CartRepo
	favs      *repos.FavoritesRepo
	orders    *repos.OrderRepo
	catalog   *repos.CatalogRepo
	auth      *services.AuthService
	cart      *services.CartService
	favorites *services.FavoritesService
	checkout  *services.OrderService
	profile   *services.ProfileService
	seeder    *services.Seeder
}

func clock() time.Time { return fixedNow }

func newEnv(t *testing.T) *env {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	s := kv.NewStorage(st, nil)
	e := &env{store: st, storage: s, catalog: repos.MustCatalogRepo()}
	e.users = repos.NewUserRepo(s, bcrypt.MinCost)
	e.carts = repos.NewCartRepo(s)
	e.favs = repos.NewFavoritesRepo(s)
	e.orders = repos.NewOrderRepo(s, e.catalog)

	e.auth = services.NewAuthService(e.users, bcrypt.MinCost)
	e.auth.Now = clock
	e.cart = services.NewCartService(e.carts, e.catalog)
	e.cart.Now = clock
	e.favorites = services.NewFavoritesService(e.favs, e.catalog)
	e.checkout = services.NewOrderService(e.carts, e.orders, e.catalog, 50)
	e.checkout.Now = clock
	e.profile = services.NewProfileService(e.users)
	e.profile.Now = clock
	e.seeder = services.NewSeeder(e.users, e.carts, e.favs, e.orders, e.catalog, bcrypt.MinCost, nil)
	e.seeder.Rand = rand.New(rand.NewPCG(1, 2))
	e.seeder.Now = clock
	return e
}

// seeded runs the seeder and returns a session logged in as yamada with an
// empty cart.
func (e *env) seeded(t *testing.T) *services.Session {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.seeder.Initialize(ctx))
	sess := &services.Session{ID: "sid-test"}
	_, err := e.auth.Login(ctx, sess, "yamada@example.com", "password123")
	require.NoError(t, err)
	_, err = e.cart.Clear(ctx, sess)
	require.NoError(t, err)
	return sess
}

package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kemstore/internal/domain"
	"kemstore/internal/kv"
	"kemstore/internal/repos"
)

func TestSeeder_FirstRun(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.seeder.Initialize(ctx))

	users := e.users.List(ctx)
	require.Len(t, users, 2)
	assert.Equal(t, "user-001", users[0].ID)
	assert.Equal(t, "yamada@example.com", users[0].Email)
	assert.Len(t, users[0].SavedAddresses, 2)
	assert.Equal(t, "user-002", users[1].ID)
	assert.Equal(t, "test@example.com", users[1].Email)

	for _, u := range users {
		cart := e.carts.Load(ctx, u.ID)
		require.Len(t, cart.Items, 2, u.ID)
		for _, it := range cart.Items {
			assert.True(t, it.Quantity >= 1 && it.Quantity <= 3)
			_, ok := e.catalog.Product(it.ProductID)
			assert.True(t, ok)
		}
		assert.Len(t, e.favs.List(ctx, u.ID), 5, u.ID)

		orders := e.orders.List(ctx, u.ID)
		require.Len(t, orders, 2, u.ID)
		assert.Len(t, orders[0].Items, 2)
		assert.Len(t, orders[1].Items, 3)
		for _, o := range orders {
			assert.Equal(t, domain.SumItems(o.Items), o.TotalAmount)
			assert.Equal(t, u.ID, o.UserID)
		}
		assert.Equal(t, "order-20240516001", orders[0].ID)
		assert.Equal(t, "order-20240522001", orders[1].ID)
	}
}

func TestSeeder_IsIdempotentPerKey(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.seeder.Initialize(ctx))

	require.True(t, e.favs.Save(ctx, "user-001", []string{"prod-010"}))
	require.True(t, e.storage.Remove(ctx, repos.CartKey("user-002")))
	cart1 := e.carts.Load(ctx, "user-001")

	require.NoError(t, e.seeder.Initialize(ctx))
	assert.Equal(t, []string{"prod-010"}, e.favs.List(ctx, "user-001"))
	assert.Equal(t, cart1.ID, e.carts.Load(ctx, "user-001").ID)
	assert.Len(t, e.carts.Load(ctx, "user-002").Items, 2)
	assert.Len(t, e.users.List(ctx), 2)
}

func TestSeeder_MigratesLegacyUsers(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	require.NoError(t, e.store.Set(ctx, repos.KeyUsers,
		[]byte(`[{"id":"user-007","name":"旧ユーザー","email":"old@example.com","password":"legacy-pass"}]`)))

	require.NoError(t, e.seeder.Initialize(ctx))
	raw, err := e.store.Get(ctx, repos.KeyUsers)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "legacy-pass")
	assert.True(t, e.carts.Exists(ctx, "user-007"))
	assert.True(t, e.favs.Exists(ctx, "user-007"))
	assert.True(t, e.orders.Exists(ctx, "user-007"))
}

func TestSeeder_StorageFailure(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Close())
	err := e.seeder.Initialize(context.Background())
	assert.ErrorIs(t, err, kv.ErrNotPersisted)
}

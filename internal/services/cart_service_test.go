package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kemstore/internal/domain"
	"kemstore/internal/services"
)

func TestCart_AddUpdateRemoveScenario(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := e.seeded(t)

	v, err := e.cart.AddItem(ctx, sess, "prod-001", 2)
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 2, v.Lines[0].Quantity)
	assert.Equal(t, int64(49600), v.TotalPrice)
	assert.Equal(t, 2, v.TotalItems)

	v, err = e.cart.UpdateQuantity(ctx, sess, "prod-001", 5)
	require.NoError(t, err)
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 5, v.Lines[0].Quantity)
	assert.Equal(t, int64(124000), v.TotalPrice)

	v, err = e.cart.RemoveItem(ctx, sess, "prod-001")
	require.NoError(t, err)
	assert.Empty(t, v.Lines)
	assert.Equal(t, int64(0), v.TotalPrice)
	assert.Equal(t, 0, v.TotalItems)
}

func TestCart_NeverHoldsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := e.seeded(t)

	steps := []func() (services.CartView, error){
		func() (services.CartView, error) { return e.cart.AddItem(ctx, sess, "prod-003", 1) },
		func() (services.CartView, error) { return e.cart.AddItem(ctx, sess, "prod-004", 2) },
		func() (services.CartView, error) { return e.cart.AddItem(ctx, sess, "prod-003", 4) },
		func() (services.CartView, error) { return e.cart.UpdateQuantity(ctx, sess, "prod-004", 7) },
		func() (services.CartView, error) { return e.cart.RemoveItem(ctx, sess, "prod-003") },
		func() (services.CartView, error) { return e.cart.AddItem(ctx, sess, "prod-003", 1) },
		func() (services.CartView, error) { return e.cart.AddItem(ctx, sess, "prod-004", 1) },
	}
	for i, step := range steps {
		v, err := step()
		require.NoError(t, err, "step %d", i)
		seen := map[string]bool{}
		for _, l := range v.Lines {
			assert.False(t, seen[l.ProductID], "step %d: duplicate %s", i, l.ProductID)
			seen[l.ProductID] = true
		}
	}
	v, err := e.cart.View(ctx, sess)
	require.NoError(t, err)
	assert.Len(t, v.Lines, 2)
	assert.Equal(t, int64(8*12800+45980), v.TotalPrice)
}

func TestCart_RejectsBadInput(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := e.seeded(t)

	_, err := e.cart.AddItem(ctx, sess, "prod-001", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)
	_, err = e.cart.AddItem(ctx, sess, "prod-999", 1)
	assert.ErrorIs(t, err, services.ErrUnknownProduct)
	_, err = e.cart.UpdateQuantity(ctx, sess, "prod-001", 0)
	assert.ErrorIs(t, err, services.ErrInvalidQuantity)

	v, err := e.cart.UpdateQuantity(ctx, sess, "prod-001", 3)
	require.NoError(t, err)
	assert.Empty(t, v.Lines, "updating a missing line changes nothing")
}

func TestCart_RequiresLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	anon := &services.Session{ID: "anon"}

	_, err := e.cart.View(ctx, anon)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
	_, err = e.cart.AddItem(ctx, anon, "prod-001", 1)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
	_, err = e.cart.Clear(ctx, anon)
	assert.ErrorIs(t, err, services.ErrNotAuthenticated)
}

func TestCart_DeletedProductContributesZero(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess := e.seeded(t)

	cart := domain.NewCart(fixedNow).
		MergeItem("prod-002", 1, fixedNow).
		MergeItem("prod-gone", 10, fixedNow)
	require.True(t, e.carts.Save(ctx, sess.UserID(), cart))

	v, err := e.cart.View(ctx, sess)
	require.NoError(t, err)
	require.Len(t, v.Lines, 2)
	assert.Nil(t, v.Lines[1].Product)
	assert.Equal(t, int64(0), v.Lines[1].Subtotal)
	assert.Equal(t, int64(22000), v.TotalPrice)
	assert.Equal(t, 1, v.TotalItems)
}

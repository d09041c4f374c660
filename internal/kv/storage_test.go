package kv_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"kemstore/internal/kv"
)

func memStore(t *testing.T) *kv.SQLiteStore {
	t.Helper()
	st, err := kv.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// failingStore fails every operation, like a browser with storage disabled.
type failingStore struct{}

var errBroken = errors.New("storage unavailable")

func (failingStore) Get(context.Context, string) ([]byte, error)   { return nil, errBroken }
func (failingStore) Set(context.Context, string, []byte) error     { return errBroken }
func (failingStore) Delete(context.Context, string) error          { return errBroken }
func (failingStore) Update(context.Context, string, kv.UpdateFunc) error {
	return errBroken
}
func (failingStore) Usage(context.Context) (int64, error) { return 0, errBroken }
func (failingStore) Close() error                         { return nil }

func TestStorage_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := kv.NewStorage(memStore(t), nil)

	assert.Equal(t, []string{"x"}, kv.Get(ctx, s, "KEM_MOCK_MISSING", []string{"x"}))

	require.True(t, s.Set(ctx, "KEM_MOCK_FAVORITES_user-001", []string{"prod-001", "prod-002"}))
	got := kv.Get(ctx, s, "KEM_MOCK_FAVORITES_user-001", []string(nil))
	assert.Equal(t, []string{"prod-001", "prod-002"}, got)
	assert.True(t, s.Exists(ctx, "KEM_MOCK_FAVORITES_user-001"))

	require.True(t, s.Remove(ctx, "KEM_MOCK_FAVORITES_user-001"))
	assert.False(t, s.Exists(ctx, "KEM_MOCK_FAVORITES_user-001"))
	// removing twice is still a success
	assert.True(t, s.Remove(ctx, "KEM_MOCK_FAVORITES_user-001"))
}

func TestStorage_MalformedJSONFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	st := memStore(t)
	require.NoError(t, st.Set(ctx, "KEM_MOCK_CART_user-001", []byte("{not json")))

	core, logs := observer.New(zap.ErrorLevel)
	s := kv.NewStorage(st, zap.New(core))

	got := kv.Get(ctx, s, "KEM_MOCK_CART_user-001", []int{42})
	assert.Equal(t, []int{42}, got)
	assert.Equal(t, 1, logs.FilterMessage("get.decode").Len())
}

func TestStorage_BackendFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	s := kv.NewStorage(failingStore{}, zap.New(core))

	assert.Equal(t, "fallback", kv.Get(ctx, s, "KEM_MOCK_CURRENT_USER_ID", "fallback"))
	assert.False(t, s.Set(ctx, "KEM_MOCK_CURRENT_USER_ID", "user-001"))
	assert.False(t, s.Remove(ctx, "KEM_MOCK_CURRENT_USER_ID"))
	assert.Equal(t, int64(0), s.Usage(ctx))
	assert.GreaterOrEqual(t, logs.Len(), 3)
}

func TestStorage_UnencodableValue(t *testing.T) {
	s := kv.NewStorage(memStore(t), nil)
	assert.False(t, s.Set(context.Background(), "KEM_MOCK_BAD", make(chan int)))
}

func TestGetWithDates(t *testing.T) {
	ctx := context.Background()
	st := memStore(t)
	payload := `[{"id":"order-1","orderedAt":"2024-05-23T10:15:30.000Z","note":"2024-05-23"},
	             {"id":"order-2","orderedAt":"2024-05-24T09:00:00+09:00"}]`
	require.NoError(t, st.Set(ctx, "KEM_MOCK_ORDERS_user-001", []byte(payload)))
	s := kv.NewStorage(st, nil)

	v := kv.GetWithDates(ctx, s, "KEM_MOCK_ORDERS_user-001", nil)
	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	first := list[0].(map[string]any)
	ts, ok := first["orderedAt"].(time.Time)
	require.True(t, ok, "orderedAt should be revived")
	assert.True(t, ts.Equal(time.Date(2024, 5, 23, 10, 15, 30, 0, time.UTC)))
	assert.Equal(t, "2024-05-23", first["note"], "plain dates stay strings")
	assert.Equal(t, "order-1", first["id"])

	second := list[1].(map[string]any)
	_, ok = second["orderedAt"].(time.Time)
	assert.True(t, ok)

	assert.Equal(t, "none", kv.GetWithDates(ctx, s, "KEM_MOCK_NOPE", "none"))
}

func TestSQLiteStore_UpdateAndUsage(t *testing.T) {
	ctx := context.Background()
	st := memStore(t)

	err := st.Update(ctx, "KEM_MOCK_COUNTER", func(old []byte, found bool) ([]byte, error) {
		assert.False(t, found)
		return []byte("1"), nil
	})
	require.NoError(t, err)

	err = st.Update(ctx, "KEM_MOCK_COUNTER", func(old []byte, found bool) ([]byte, error) {
		assert.True(t, found)
		assert.Equal(t, "1", string(old))
		return nil, nil // leave as is
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = st.Update(ctx, "KEM_MOCK_COUNTER", func([]byte, bool) ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)

	v, err := st.Get(ctx, "KEM_MOCK_COUNTER")
	require.NoError(t, err)
	assert.Equal(t, "1", string(v))

	_, err = st.Get(ctx, "KEM_MOCK_NOPE")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, st.Set(ctx, "OTHER_KEY", []byte("ignored")))
	n, err := st.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len("KEM_MOCK_COUNTER")+1), n)
}

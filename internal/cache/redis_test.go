package cache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/storefront/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestRedis creates a miniredis server and a client pointing at it
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

type countingStore struct {
	*repository.MemoryStore
	mu   sync.Mutex
	gets int
}

func (c *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.MemoryStore.Get(ctx, key)
}

func (c *countingStore) getCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisStore(client)
	ctx := context.Background()

	_, err := s.Get(ctx, "cart-v1")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "cart-v1", []byte(`{"items":[]}`)))
	assert.True(t, mr.Exists("storefront:cart-v1"))
	assert.Zero(t, mr.TTL("storefront:cart-v1"))

	got, err := s.Get(ctx, "cart-v1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))

	require.NoError(t, s.Delete(ctx, "cart-v1"))
	assert.ErrorIs(t, s.Delete(ctx, "cart-v1"), repository.ErrKeyNotFound)
}

func TestRedisStore_ServerDown(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewRedisStore(client)
	mr.Close()

	err := s.Set(context.Background(), "k", []byte("v"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestCachedStore_ReadThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := &countingStore{MemoryStore: repository.NewMemoryStore()}
	s := NewCachedStore(backend, client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, backend.MemoryStore.Set(ctx, "orders-v1", []byte(`[]`)))

	got, err := s.Get(ctx, "orders-v1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.True(t, mr.Exists(cacheKey("orders-v1")))
	assert.True(t, mr.TTL(cacheKey("orders-v1")) > 0)

	got, err = s.Get(ctx, "orders-v1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
	assert.Equal(t, 1, backend.getCount())
}

func TestCachedStore_MissPassesThrough(t *testing.T) {
	client, mr := setupTestRedis(t)
	s := NewCachedStore(repository.NewMemoryStore(), client, zap.NewNop())

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	assert.False(t, mr.Exists(cacheKey("nope")))
}

func TestCachedStore_SetInvalidates(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := &countingStore{MemoryStore: repository.NewMemoryStore()}
	s := NewCachedStore(backend, client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "cart-v1", []byte(`{"items":[]}`)))
	_, err := s.Get(ctx, "cart-v1")
	require.NoError(t, err)
	require.True(t, mr.Exists(cacheKey("cart-v1")))

	require.NoError(t, s.Set(ctx, "cart-v1", []byte(`{"items":[{"productId":"p1","quantity":1}]}`)))
	assert.False(t, mr.Exists(cacheKey("cart-v1")))

	got, err := s.Get(ctx, "cart-v1")
	require.NoError(t, err)
	assert.Contains(t, string(got), "p1")
	assert.Equal(t, 2, backend.getCount())
}

func TestCachedStore_RedisDownFallsBackToBackend(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := repository.NewMemoryStore()
	s := NewCachedStore(backend, client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "k", []byte(`1`)))
	mr.Close()

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `1`, string(got))

	require.NoError(t, s.Set(ctx, "k", []byte(`2`)))
	got, err = backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `2`, string(got))
}

// hookStore runs onSet in the middle of a write, after the backend accepted it.
type hookStore struct {
	*repository.MemoryStore
	setErr error
	onSet  func()
}

func (h *hookStore) Set(ctx context.Context, key string, value []byte) error {
	if h.setErr != nil {
		return h.setErr
	}
	if err := h.MemoryStore.Set(ctx, key, value); err != nil {
		return err
	}
	if h.onSet != nil {
		h.onSet()
	}
	return nil
}

func TestCachedStore_SetDropsCachedCopyBeforeWriting(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := &hookStore{MemoryStore: repository.NewMemoryStore(), setErr: errors.New("disk full")}
	s := NewCachedStore(backend, client, zap.NewNop())
	require.NoError(t, mr.Set(cacheKey("cart-v1"), `{"items":[]}`))

	err := s.Set(context.Background(), "cart-v1", []byte(`{"items":[{"productId":"p1","quantity":1}]}`))

	assert.Error(t, err)
	assert.False(t, mr.Exists(cacheKey("cart-v1")))
}

func TestCachedStore_FailedInvalidationSkipsCacheUntilDropped(t *testing.T) {
	client, mr := setupTestRedis(t)
	backend := &hookStore{MemoryStore: repository.NewMemoryStore()}
	s := NewCachedStore(backend, client, zap.NewNop())
	ctx := context.Background()

	// A concurrent reader refills the old value, then redis stops answering.
	backend.onSet = func() {
		require.NoError(t, mr.Set(cacheKey("orders-v1"), `["old"]`))
		mr.SetError("LOADING redis is loading the dataset")
	}
	require.NoError(t, s.Set(ctx, "orders-v1", []byte(`["new"]`)))

	got, err := s.Get(ctx, "orders-v1")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(got))

	mr.SetError("")
	got, err = s.Get(ctx, "orders-v1")
	require.NoError(t, err)
	assert.Equal(t, `["new"]`, string(got))
	assert.Equal(t, `["new"]`, mustGet(t, mr, cacheKey("orders-v1")))
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}

// Package cache puts redis in front of, or in place of, a storage backend.
package cache

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrCacheMiss = errors.New("cache miss")

// CachedStore serves reads from redis and falls back to the backend on a miss.
// Writes drop the cached copy, go to the backend and drop the copy again in
// case a concurrent read refilled it. A key whose last drop failed is dirty:
// reads skip the cache for it until a drop succeeds.
type CachedStore struct {
	backend repository.Store
	client  *redis.Client
	baseTTL time.Duration
	log     *zap.Logger
	sfg     singleflight.Group // Prevents cache stampede
	dirty   sync.Map
}

func NewCachedStore(backend repository.Store, client *redis.Client, log *zap.Logger) *CachedStore {
	return &CachedStore{
		backend: backend,
		client:  client,
		baseTTL: 15 * time.Minute,
		log:     log,
	}
}

func (c *CachedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if _, ok := c.dirty.Load(key); ok {
		if c.invalidate(ctx, key) != nil {
			return c.backend.Get(ctx, key)
		}
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		data, err := c.cached(ctx, key)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.log.Warn("cache get error", zap.String("key", key), zap.Error(err))
		}

		data, err = c.backend.Get(ctx, key)
		if err != nil {
			return nil, err
		}

		if err := c.fill(ctx, key, data); err != nil {
			c.log.Warn("cache set error", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	_ = c.invalidate(ctx, key)
	if err := c.backend.Set(ctx, key, value); err != nil {
		return err
	}
	_ = c.invalidate(ctx, key)
	return nil
}

func (c *CachedStore) Delete(ctx context.Context, key string) error {
	_ = c.invalidate(ctx, key)
	err := c.backend.Delete(ctx, key)
	_ = c.invalidate(ctx, key)
	return err
}

func (c *CachedStore) Close() error {
	return c.backend.Close()
}

func (c *CachedStore) cached(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return data, nil
}

func (c *CachedStore) fill(ctx context.Context, key string, data []byte) error {
	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := c.client.Set(ctx, cacheKey(key), data, c.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// invalidate drops the cached copy of key, marking the key dirty when that
// fails. It runs even when ctx is already cancelled.
func (c *CachedStore) invalidate(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()
	if err := c.client.Del(ctx, cacheKey(key)).Err(); err != nil {
		c.dirty.Store(key, struct{}{})
		c.log.Warn("cache invalidate error", zap.String("key", key), zap.Error(err))
		return err
	}
	c.dirty.Delete(key)
	return nil
}

func cacheKey(key string) string {
	return fmt.Sprintf("cache:%s", key)
}

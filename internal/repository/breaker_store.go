package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/storefront/pkg/circuitbreaker"
	"go.uber.org/zap"
)

// BreakerStore stops calling a remote backend that keeps failing and reports
// ErrStorageUnavailable instead, so callers fall back quickly.
type BreakerStore struct {
	next    Store
	breaker *circuitbreaker.Breaker
}

func NewBreakerStore(next Store, cfg circuitbreaker.Config, log *zap.Logger) *BreakerStore {
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, ErrKeyNotFound)
	}
	cfg.OnStateChange = func(name, from, to string) {
		log.Warn("storage breaker state changed",
			zap.String("breaker", name), zap.String("from", from), zap.String("to", to))
	}
	return &BreakerStore{next: next, breaker: circuitbreaker.New(cfg)}
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.breaker.Do(func() error {
		var err error
		value, err = b.next.Get(ctx, key)
		return err
	})
	return value, b.wrap(err)
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte) error {
	return b.wrap(b.breaker.Do(func() error {
		return b.next.Set(ctx, key, value)
	}))
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	return b.wrap(b.breaker.Do(func() error {
		return b.next.Delete(ctx, key)
	}))
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

func (b *BreakerStore) wrap(err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return err
}

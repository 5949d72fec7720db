// Package repository is the durable key-value port used by the cart and the
// order history, plus its backends.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrKeyNotFound        = errors.New("key not found")
	ErrReadFailed         = errors.New("storage read failed")
	ErrWriteFailed        = errors.New("storage write failed")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store is string-keyed storage of opaque values. Set replaces the whole value
// of a key or leaves the previous one in place.
// Consumers define this interface, not the backends.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Read decodes the JSON value under key. It never fails: a missing key, a
// backend error or a corrupt value all yield def.
func Read[T any](ctx context.Context, s Store, key string, def T) T {
	v, err := Load(ctx, s, key, def)
	if err != nil {
		zap.L().Warn("storage read failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// Load is Read for read-modify-write callers. A missing key or a corrupt value
// still yields def, but a backend error is returned so the caller does not
// overwrite data it could not see.
func Load[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("%w: %s: %w", ErrReadFailed, key, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		zap.L().Warn("stored value is corrupt, using default", zap.String("key", key), zap.Error(err))
		return def, nil
	}
	return v, nil
}

// Write encodes v as JSON and stores it under key.
func Write(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", ErrWriteFailed, key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, key, err)
	}
	return nil
}

// Remove deletes key; a missing key is not an error.
func Remove(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

package catalog

import (
	"context"
	"fmt"

	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"go.uber.org/zap"
)

// override is an admin-managed document stored under one key that replaces a
// built-in default while it is present and valid.
type override[V any] struct {
	key      string
	what     string
	store    repository.Store
	log      *zap.Logger
	validate func(*V) error
}

// get returns the stored document, or nil when there is none or it cannot be
// used. Display paths use this.
func (o override[V]) get(ctx context.Context) *V {
	v, err := o.load(ctx)
	if err != nil {
		logger.WithContext(ctx, o.log).Warn("stored "+o.what+" override unreadable, using defaults", zap.Error(err))
		return nil
	}
	return v
}

// load is get for read-modify-write callers: a backend error is returned
// instead of being mistaken for "no override".
func (o override[V]) load(ctx context.Context) (*V, error) {
	v, err := repository.Load[*V](ctx, o.store, o.key, nil)
	if err != nil || v == nil {
		return nil, err
	}
	if err := o.validate(v); err != nil {
		logger.WithContext(ctx, o.log).Warn("ignoring stored "+o.what+" override", zap.Error(err))
		return nil, nil
	}
	return v, nil
}

func (o override[V]) set(ctx context.Context, v *V) error {
	if err := o.validate(v); err != nil {
		return err
	}
	if err := repository.Write(ctx, o.store, o.key, v); err != nil {
		return fmt.Errorf("failed to save %s override: %w", o.what, err)
	}
	return nil
}

func (o override[V]) reset(ctx context.Context) error {
	if err := repository.Remove(ctx, o.store, o.key); err != nil {
		return fmt.Errorf("failed to reset %s override: %w", o.what, err)
	}
	logger.WithContext(ctx, o.log).Info(o.what + " override removed")
	return nil
}

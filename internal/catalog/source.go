package catalog

import (
	"context"
	"slices"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"go.uber.org/zap"
)

const OverrideKey = "catalog-override-v1"

// Source serves the catalog in effect: the stored override when there is a
// valid one, the defaults otherwise. Checkout settings have no override.
type Source struct {
	defaults *domain.Catalog
	checkout *domain.CheckoutConfig
	override override[domain.Catalog]
	log      *zap.Logger
}

func NewSource(defaults *domain.Catalog, checkout *domain.CheckoutConfig, store repository.Store, log *zap.Logger) *Source {
	return &Source{
		defaults: defaults,
		checkout: checkout,
		override: override[domain.Catalog]{
			key:      OverrideKey,
			what:     "catalog",
			store:    store,
			log:      log,
			validate: Validate,
		},
		log: log,
	}
}

// Catalog returns a copy the caller may modify.
func (s *Source) Catalog(ctx context.Context) *domain.Catalog {
	if c := s.override.get(ctx); c != nil {
		return c
	}
	return clone(s.defaults)
}

func (s *Source) HasOverride(ctx context.Context) bool {
	return s.override.get(ctx) != nil
}

func (s *Source) CheckoutConfig() *domain.CheckoutConfig {
	return s.checkout
}

// SetOverride validates c and stores it as the catalog in effect.
func (s *Source) SetOverride(ctx context.Context, c *domain.Catalog) error {
	if err := s.override.set(ctx, c); err != nil {
		return err
	}
	logger.WithContext(ctx, s.log).Info("catalog override saved", zap.Int("products", len(c.Products)))
	return nil
}

// ResetOverride goes back to the default catalog.
func (s *Source) ResetOverride(ctx context.Context) error {
	return s.override.reset(ctx)
}

// current is Catalog for edits. It fails when the stored override cannot be
// read, so an edit never replaces an override built on top of the defaults.
func (s *Source) current(ctx context.Context) (*domain.Catalog, error) {
	c, err := s.override.load(ctx)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}
	return clone(s.defaults), nil
}

func clone(c *domain.Catalog) *domain.Catalog {
	out := *c
	out.Categories = slices.Clone(c.Categories)
	out.Products = slices.Clone(c.Products)
	return &out
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/config"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/money"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/internal/service"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// app carries everything a command needs. Tests preset store and cfg.
type app struct {
	cfg     *config.Config
	store   repository.Store
	closers []func() error

	log      *zap.Logger
	locale   language.Tag
	verbose  bool
	localeID string

	ctx    context.Context
	cancel context.CancelFunc

	source   *catalog.Source
	site     *catalog.SiteSource
	auth     *catalog.Authorizer
	cart     *service.CartService
	orders   *service.OrderService
	checkout *service.CheckoutService
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	level := a.cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	log, err := logger.New(level, a.verbose)
	if err != nil {
		return err
	}
	a.log = log
	zap.ReplaceGlobals(log)

	localeID := a.cfg.Locale
	if a.localeID != "" {
		localeID = a.localeID
	}
	tag, err := language.Parse(localeID)
	if err != nil {
		return fmt.Errorf("invalid locale %q: %w", localeID, err)
	}
	a.locale = tag

	a.ctx, a.cancel = context.WithTimeout(cmd.Context(), a.cfg.StorageTimeout)

	if a.store == nil {
		store, closers, err := openStore(a.ctx, a.cfg, log)
		if err != nil {
			return err
		}
		a.store = store
		a.closers = closers
	}

	defaults, err := catalog.LoadCatalog(a.cfg.CatalogPath)
	if err != nil {
		return err
	}
	checkoutCfg, err := catalog.LoadCheckoutConfig(a.cfg.CheckoutPath)
	if err != nil {
		return err
	}

	siteCfg, err := catalog.LoadSiteConfig(a.cfg.SitePath)
	if err != nil {
		return err
	}

	a.source = catalog.NewSource(defaults, checkoutCfg, a.store, log)
	a.site = catalog.NewSiteSource(siteCfg, a.store, log)
	a.auth = catalog.NewAuthorizer(a.cfg.AdminPIN, a.cfg.AdminPINHash)
	a.cart = service.NewCartService(a.ctx, a.store, log)
	a.orders = service.NewOrderService(a.store, log)
	a.checkout = service.NewCheckoutService(a.cart, a.orders, log)
	return nil
}

// teardown is safe to call more than once and after a failed setup.
func (a *app) teardown() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.log != nil {
			a.log.Warn("failed to close storage", zap.Error(err))
		}
	}
	a.closers = nil
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// catalog returns the catalog in effect after bringing the cart back within
// its stock limits.
func (a *app) catalog(w io.Writer) (*domain.Catalog, error) {
	c := a.source.Catalog(a.ctx)
	changed, err := a.cart.Reconcile(a.ctx, c)
	if changed {
		fmt.Fprintln(w, "note: cart adjusted to current stock")
	}
	return c, a.tolerate(w, err)
}

// tolerate turns a storage write failure into a warning; the change is
// already in effect for this command.
func (a *app) tolerate(w io.Writer, err error) error {
	if errors.Is(err, service.ErrNotPersisted) {
		fmt.Fprintln(w, "warning: change could not be saved:", err)
		return nil
	}
	return err
}

func (a *app) price(amount decimal.Decimal, currency string) string {
	return money.MustFormat(amount, currency, a.locale)
}

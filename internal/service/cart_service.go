package service

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
	"github.com/fjod/storefront/internal/quantity"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const CartKey = "cart-v1"

var tracer = otel.Tracer("github.com/fjod/storefront/internal/service")

// CartService owns the shopping cart. Every mutation is written to the store
// before it is committed in memory; a failed write is reported with
// ErrNotPersisted but the mutation still takes effect for this process.
// If the saved cart could not be read, mutations are not written until it
// has been, so the stored cart is never replaced by one built on a guess.
type CartService struct {
	mu      sync.Mutex
	items   []domain.CartItem
	loaded  bool
	loadErr error
	store   repository.Store
	log     *zap.Logger
}

// NewCartService restores the cart saved under CartKey, or starts empty.
func NewCartService(ctx context.Context, store repository.Store, log *zap.Logger) *CartService {
	s := &CartService{
		items: []domain.CartItem{},
		store: store,
		log:   log,
	}
	s.restore(ctx)
	return s
}

// restore loads the saved cart unless that already succeeded. Callers hold
// s.mu or own s exclusively.
func (s *CartService) restore(ctx context.Context) {
	if s.loaded {
		return
	}
	saved, err := repository.Load(ctx, s.store, CartKey, domain.Cart{})
	if err != nil {
		s.loadErr = err
		logger.WithContext(ctx, s.log).Warn("saved cart unreadable", zap.Error(err))
		return
	}
	s.items = sanitize(saved.Items)
	s.loaded = true
	s.loadErr = nil
}

// sanitize drops entries that break the cart invariants, which only happens
// when stored data was edited by hand.
func sanitize(items []domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ProductID == "" || it.Quantity <= 0 || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		out = append(out, it)
	}
	return out
}

// SelectCount is the number of units in the cart.
func SelectCount(items []domain.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func (s *CartService) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SelectCount(s.items)
}

// Lines resolves the current cart against catalog.
func (s *CartService) Lines(catalog *domain.Catalog) []domain.CartLine {
	return pricing.ResolveLines(s.Items(), catalog)
}

// AddToCart adds qty units of productID, never going past maxQty when it is set.
func (s *CartService) AddToCart(ctx context.Context, productID string, qty float64, maxQty *int) error {
	ctx, span := tracer.Start(ctx, "CartService.AddToCart")
	defer span.End()

	amount := quantity.Normalize(qty)
	if amount <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx)

	current := s.quantityOf(productID)
	next := quantity.Clamp(quantity.Add(current, amount), maxQty)
	if next == current {
		return nil
	}
	if next <= 0 {
		return s.commit(ctx, without(s.items, productID))
	}
	return s.commit(ctx, upsert(s.items, productID, next))
}

func (s *CartService) RemoveFromCart(ctx context.Context, productID string) error {
	ctx, span := tracer.Start(ctx, "CartService.RemoveFromCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx)

	if s.indexOf(productID) < 0 {
		return nil
	}
	return s.commit(ctx, without(s.items, productID))
}

// SetQuantity sets the absolute quantity of productID. A result of zero or
// less removes the item.
func (s *CartService) SetQuantity(ctx context.Context, productID string, qty float64, maxQty *int) error {
	ctx, span := tracer.Start(ctx, "CartService.SetQuantity")
	defer span.End()

	amount := quantity.Clamp(quantity.Normalize(qty), maxQty)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx)

	if amount <= 0 {
		if s.indexOf(productID) < 0 {
			return nil
		}
		return s.commit(ctx, without(s.items, productID))
	}
	if s.quantityOf(productID) == amount {
		return nil
	}
	return s.commit(ctx, upsert(s.items, productID, amount))
}

func (s *CartService) ClearCart(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx)
	return s.commit(ctx, []domain.CartItem{})
}

// Reconcile brings the cart back within the stock declared by catalog.
// Items whose stock dropped to zero are removed. Products missing from the
// catalog are kept; checkout reports them.
func (s *CartService) Reconcile(ctx context.Context, catalog *domain.Catalog) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(ctx)

	next := make([]domain.CartItem, 0, len(s.items))
	changed := false
	for _, it := range s.items {
		p := catalog.FindProduct(it.ProductID)
		if p == nil || !p.HasStockLimit() {
			next = append(next, it)
			continue
		}
		q := quantity.Clamp(it.Quantity, p.Stock)
		if q != it.Quantity {
			changed = true
			logger.WithContext(ctx, s.log).Info("cart item clamped to stock",
				zap.String("product_id", it.ProductID),
				zap.Int("from", it.Quantity),
				zap.Int("to", max(q, 0)))
		}
		if q > 0 {
			next = append(next, domain.CartItem{ProductID: it.ProductID, Quantity: q})
		}
	}
	if !changed {
		return false, nil
	}
	return true, s.commit(ctx, next)
}

// commit persists next and then makes it the current state regardless of the
// write outcome. Nothing is written while the saved cart is unreadable.
// Callers hold s.mu.
func (s *CartService) commit(ctx context.Context, next []domain.CartItem) error {
	s.items = next
	if !s.loaded {
		return fmt.Errorf("%w: %w", ErrNotPersisted, s.loadErr)
	}
	err := repository.Write(ctx, s.store, CartKey, domain.Cart{Items: next})
	if err != nil {
		logger.WithContext(ctx, s.log).Warn("cart not persisted", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

func (s *CartService) indexOf(productID string) int {
	return slices.IndexFunc(s.items, func(it domain.CartItem) bool {
		return it.ProductID == productID
	})
}

func (s *CartService) quantityOf(productID string) int {
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

func upsert(items []domain.CartItem, productID string, qty int) []domain.CartItem {
	next := slices.Clone(items)
	for i := range next {
		if next[i].ProductID == productID {
			next[i].Quantity = qty
			return next
		}
	}
	return append(next, domain.CartItem{ProductID: productID, Quantity: qty})
}

func without(items []domain.CartItem, productID string) []domain.CartItem {
	return slices.DeleteFunc(slices.Clone(items), func(it domain.CartItem) bool {
		return it.ProductID == productID
	})
}

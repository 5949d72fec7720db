package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	errDiskFull        = errors.New("disk full")
	errConnectionReset = errors.New("connection reset")
)

// mockStore wraps a MemoryStore and can be told to fail reads and writes.
type mockStore struct {
	*repository.MemoryStore
	m        sync.RWMutex
	setErr   error
	sets     int
	getErr   error
	getFails int
}

func newMockStore() *mockStore {
	return &mockStore{MemoryStore: repository.NewMemoryStore()}
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	m.m.Lock()
	m.sets++
	err := m.setErr
	m.m.Unlock()
	if err != nil {
		return err
	}
	return m.MemoryStore.Set(ctx, key, value)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.m.Lock()
	if m.getFails > 0 {
		m.getFails--
		err := m.getErr
		m.m.Unlock()
		return nil, err
	}
	m.m.Unlock()
	return m.MemoryStore.Get(ctx, key)
}

// failReads makes the next n reads return err.
func (m *mockStore) failReads(n int, err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.getFails = n
	m.getErr = err
}

func (m *mockStore) failWrites(err error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.setErr = err
}

func (m *mockStore) setCount() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.sets
}

func intPtr(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCatalog() *domain.Catalog {
	return &domain.Catalog{
		Currency:   "EUR",
		Categories: []domain.Category{{ID: "home", Name: "Home"}},
		Products: []domain.Product{
			{ID: "p1", Name: "Mug", Price: dec("25"), Stock: intPtr(5), CategoryID: "home"},
			{ID: "p2", Name: "Poster", Price: dec("12.50"), CategoryID: "home"},
			{ID: "p3", Name: "Lamp", Price: dec("40"), Stock: intPtr(2), CategoryID: "home"},
		},
	}
}

func testCheckoutConfig() *domain.CheckoutConfig {
	return &domain.CheckoutConfig{
		ShippingMethods: []domain.ShippingMethod{
			{ID: "standard", Name: "Standard", Price: dec("10"), ETADays: [2]int{3, 5}},
			{ID: "express", Name: "Express", Price: dec("15"), ETADays: [2]int{1, 2}},
		},
		PaymentMethods: []domain.PaymentMethod{
			{ID: "card", Name: "Card"},
			{ID: "cod", Name: "Cash on delivery"},
		},
		TaxRate: dec("0.21"),
	}
}

func newTestCart(t *testing.T, store repository.Store) *CartService {
	t.Helper()
	return NewCartService(context.Background(), store, zap.NewNop())
}

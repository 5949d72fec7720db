package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
	"github.com/fjod/storefront/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func setupTestOrders(t *testing.T) (*OrderService, *mockStore) {
	t.Helper()
	store := newMockStore()
	svc := NewOrderService(store, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	seq := 0
	svc.newID = func(time.Time) string {
		seq++
		return "ord_test_" + string(rune('0'+seq))
	}
	return svc, store
}

func validRequest() OrderRequest {
	return OrderRequest{
		Customer: domain.Customer{
			FullName:   "Ana Test",
			Email:      "ana@example.com",
			Phone:      "600123123",
			Address1:   "Calle Mayor 1",
			City:       "Madrid",
			PostalCode: "28013",
			Country:    "ES",
		},
		ShippingMethodID: "standard",
		PaymentMethodID:  "card",
	}
}

func linesFor(catalog *domain.Catalog, items ...domain.CartItem) []domain.CartLine {
	return pricing.ResolveLines(items, catalog)
}

func TestNewOrderID_Format(t *testing.T) {
	id := NewOrderID(fixedNow)
	assert.Regexp(t, regexp.MustCompile(`^ord_1773480413000_[0-9a-f]{6}$`), id)
	assert.NotEqual(t, id, NewOrderID(fixedNow))
}

func TestCreateOrder_Success(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestOrders(t)
	catalog := testCatalog()
	catalog.Products[0].Price = dec("100")

	order, err := svc.CreateOrder(ctx, validRequest(),
		linesFor(catalog, domain.CartItem{ProductID: "p1", Quantity: 1}),
		catalog.Currency, testCheckoutConfig())
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "ord_test_1", order.ID)
	assert.Equal(t, fixedNow, order.CreatedAt)
	assert.Equal(t, "EUR", order.Currency)
	assert.Equal(t, domain.ShippingSnapshot{ID: "standard", Name: "Standard", Price: dec("10")}, order.Shipping)
	assert.Equal(t, domain.PaymentSnapshot{ID: "card", Name: "Card"}, order.Payment)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Mug", order.Items[0].Name)
	assert.True(t, order.Items[0].LineTotal.Equal(dec("100")))
	assert.True(t, order.Totals.Subtotal.Equal(dec("100")))
	assert.True(t, order.Totals.Tax.Equal(dec("23.1")))
	assert.True(t, order.Totals.Total.Equal(dec("133.1")))
	assert.Equal(t, 1, order.ItemCount())
}

func TestCreateOrder_SnapshotSurvivesCatalogChange(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestOrders(t)
	catalog := testCatalog()

	order, err := svc.CreateOrder(ctx, validRequest(),
		linesFor(catalog, domain.CartItem{ProductID: "p2", Quantity: 2}),
		catalog.Currency, testCheckoutConfig())
	require.NoError(t, err)

	catalog.Products[1].Price = dec("99")
	catalog.Products[1].Name = "Renamed"

	stored, err := svc.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poster", stored.Items[0].Name)
	assert.True(t, stored.Items[0].UnitPrice.Equal(dec("12.50")))
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestOrders(t)
	catalog := testCatalog()

	order, err := svc.CreateOrder(ctx, validRequest(),
		linesFor(catalog, domain.CartItem{ProductID: "p3", Quantity: 5}),
		catalog.Currency, testCheckoutConfig())

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 2, verr.Available)
	assert.Equal(t, "p3", verr.ProductID)
	assert.Contains(t, verr.Message, "Available: 2")
	assert.Zero(t, store.setCount())
	assert.Empty(t, svc.GetOrders(ctx))
}

func TestCreateOrder_Rejections(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name    string
		req     func() OrderRequest
		lines   []domain.CartLine
		wantErr error
	}{
		{
			name:    "empty cart",
			req:     validRequest,
			lines:   nil,
			wantErr: ErrEmptyCart,
		},
		{
			name:    "missing product",
			req:     validRequest,
			lines:   linesFor(catalog, domain.CartItem{ProductID: "p1", Quantity: 1}, domain.CartItem{ProductID: "gone", Quantity: 1}),
			wantErr: ErrProductNotFound,
		},
		{
			name: "unknown shipping",
			req: func() OrderRequest {
				r := validRequest()
				r.ShippingMethodID = "drone"
				return r
			},
			lines:   linesFor(catalog, domain.CartItem{ProductID: "p1", Quantity: 1}),
			wantErr: ErrInvalidMethod,
		},
		{
			name: "unknown payment",
			req: func() OrderRequest {
				r := validRequest()
				r.PaymentMethodID = "crypto"
				return r
			},
			lines:   linesFor(catalog, domain.CartItem{ProductID: "p1", Quantity: 1}),
			wantErr: ErrInvalidMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, store := setupTestOrders(t)

			order, err := svc.CreateOrder(ctx, tt.req(), tt.lines, catalog.Currency, testCheckoutConfig())

			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Zero(t, store.setCount())
		})
	}
}

func TestCreateOrder_StockCheckedBeforeMethods(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestOrders(t)
	catalog := testCatalog()
	req := validRequest()
	req.ShippingMethodID = "drone"

	_, err := svc.CreateOrder(ctx, req,
		linesFor(catalog, domain.CartItem{ProductID: "p3", Quantity: 3}),
		catalog.Currency, testCheckoutConfig())

	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestGetOrders_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestOrders(t)
	catalog := testCatalog()
	lines := linesFor(catalog, domain.CartItem{ProductID: "p2", Quantity: 1})

	first, err := svc.CreateOrder(ctx, validRequest(), lines, catalog.Currency, testCheckoutConfig())
	require.NoError(t, err)
	second, err := svc.CreateOrder(ctx, validRequest(), lines, catalog.Currency, testCheckoutConfig())
	require.NoError(t, err)

	orders := svc.GetOrders(ctx)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestGetOrders_CorruptHistory(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestOrders(t)
	require.NoError(t, store.MemoryStore.Set(ctx, OrdersKey, []byte(`{"not":"a list"}`)))

	assert.Empty(t, svc.GetOrders(ctx))
}

func TestFindOrderByID_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupTestOrders(t)

	order, err := svc.FindOrderByID(ctx, "ord_missing")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestCreateOrder_PersistFailureReturnsOrder(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestOrders(t)
	store.failWrites(errDiskFull)
	catalog := testCatalog()

	order, err := svc.CreateOrder(ctx, validRequest(),
		linesFor(catalog, domain.CartItem{ProductID: "p1", Quantity: 1}),
		catalog.Currency, testCheckoutConfig())

	require.NotNil(t, order)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, repository.ErrWriteFailed)
	assert.Empty(t, svc.GetOrders(ctx))
}

func TestCreateOrder_UnreadableHistoryIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	svc, store := setupTestOrders(t)
	catalog := testCatalog()
	lines := linesFor(catalog, domain.CartItem{ProductID: "p2", Quantity: 1})
	for i := 0; i < 3; i++ {
		_, err := svc.CreateOrder(ctx, validRequest(), lines, catalog.Currency, testCheckoutConfig())
		require.NoError(t, err)
	}
	writes := store.setCount()
	store.failReads(1, errConnectionReset)

	order, err := svc.CreateOrder(ctx, validRequest(), lines, catalog.Currency, testCheckoutConfig())

	require.NotNil(t, order)
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.ErrorIs(t, err, repository.ErrReadFailed)
	assert.ErrorIs(t, err, errConnectionReset)
	assert.Equal(t, writes, store.setCount())
	assert.Len(t, svc.GetOrders(ctx), 3)
}

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyStore fails the next reads with err.
type flakyStore struct {
	*repository.MemoryStore
	fails int
	err   error
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.fails > 0 {
		f.fails--
		return nil, f.err
	}
	return f.MemoryStore.Get(ctx, key)
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProduct_PriceAndStock(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestSource(t)

	p, err := src.UpdateProduct(ctx, "mug-classic", ProductPatch{
		Price: ptr(decimal.RequireFromString("9.99")),
		Stock: ptr(2),
	})
	require.NoError(t, err)

	assert.Equal(t, "9.99", p.Price.String())
	assert.Equal(t, 2, *p.Stock)
	assert.True(t, src.HasOverride(ctx))
	got := src.Catalog(ctx).FindProduct("mug-classic")
	require.NotNil(t, got)
	assert.Equal(t, 2, *got.Stock)
	assert.NotNil(t, src.Catalog(ctx).FindProduct("lamp-desk"))
}

func TestUpdateProduct_KeepsEarlierEdits(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestSource(t)

	_, err := src.UpdateProduct(ctx, "mug-classic", ProductPatch{Name: ptr("Big mug")})
	require.NoError(t, err)
	_, err = src.UpdateProduct(ctx, "lamp-desk", ProductPatch{UnlimitedStock: true})
	require.NoError(t, err)

	c := src.Catalog(ctx)
	assert.Equal(t, "Big mug", c.FindProduct("mug-classic").Name)
	assert.False(t, c.FindProduct("lamp-desk").HasStockLimit())
}

func TestUpdateProduct_Unknown(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestSource(t)

	_, err := src.UpdateProduct(ctx, "nope", ProductPatch{Name: ptr("x")})

	assert.ErrorIs(t, err, ErrUnknownProduct)
	assert.False(t, src.HasOverride(ctx))
}

func TestUpdateProduct_RejectsInvalidEdit(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestSource(t)

	_, err := src.UpdateProduct(ctx, "mug-classic", ProductPatch{Stock: ptr(-1)})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	_, err = src.UpdateProduct(ctx, "mug-classic", ProductPatch{CategoryID: ptr("nowhere")})
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.False(t, src.HasOverride(ctx))
}

func TestUpdateProduct_UnreadableOverrideIsNotReplaced(t *testing.T) {
	ctx := context.Background()
	c, err := LoadCatalog("")
	require.NoError(t, err)
	cfg, err := LoadCheckoutConfig("")
	require.NoError(t, err)
	store := &flakyStore{MemoryStore: repository.NewMemoryStore(), err: errors.New("connection reset")}
	src := NewSource(c, cfg, store, zap.NewNop())
	require.NoError(t, src.SetOverride(ctx, smallCatalog()))

	store.fails = 1
	_, err = src.UpdateProduct(ctx, "mug-classic", ProductPatch{Name: ptr("x")})

	assert.ErrorIs(t, err, repository.ErrReadFailed)
	got := src.Catalog(ctx)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "only", got.Products[0].ID)
}

func TestAddAndRemoveProduct(t *testing.T) {
	ctx := context.Background()
	src, _ := setupTestSource(t)
	require.NoError(t, src.SetOverride(ctx, smallCatalog()))

	err := src.AddProduct(ctx, domain.Product{ID: "second", Name: "Second", Price: decimal.NewFromInt(1), CategoryID: "c"})
	require.NoError(t, err)
	assert.Len(t, src.Catalog(ctx).Products, 2)

	err = src.AddProduct(ctx, domain.Product{ID: "second", Name: "Again", CategoryID: "c"})
	assert.ErrorIs(t, err, ErrInvalidCatalog)

	require.NoError(t, src.RemoveProduct(ctx, "only"))
	c := src.Catalog(ctx)
	require.Len(t, c.Products, 1)
	assert.Equal(t, "second", c.Products[0].ID)

	assert.ErrorIs(t, src.RemoveProduct(ctx, "only"), ErrUnknownProduct)
}

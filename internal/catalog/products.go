package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrUnknownProduct = errors.New("unknown product")

// ProductPatch lists the product fields an edit changes; nil fields are kept.
// UnlimitedStock drops the stock limit and wins over Stock.
type ProductPatch struct {
	Name           *string
	Description    *string
	Price          *decimal.Decimal
	Stock          *int
	UnlimitedStock bool
	CategoryID     *string
}

// Apply writes the patch onto prod.
func (p ProductPatch) Apply(prod *domain.Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		stock := *p.Stock
		prod.Stock = &stock
	}
	if p.UnlimitedStock {
		prod.Stock = nil
	}
	if p.CategoryID != nil {
		prod.CategoryID = *p.CategoryID
	}
}

// UpdateProduct edits one product of the catalog in effect and stores the
// result as the override.
func (s *Source) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*domain.Product, error) {
	c, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	prod := c.FindProduct(id)
	if prod == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	patch.Apply(prod)
	updated := *prod

	if err := s.SetOverride(ctx, c); err != nil {
		return nil, err
	}
	return &updated, nil
}

// AddProduct appends p to the catalog in effect.
func (s *Source) AddProduct(ctx context.Context, p domain.Product) error {
	c, err := s.current(ctx)
	if err != nil {
		return err
	}
	c.Products = append(c.Products, p)
	return s.SetOverride(ctx, c)
}

// RemoveProduct drops a product from the catalog in effect. Cart lines that
// refer to it stay and are reported by checkout.
func (s *Source) RemoveProduct(ctx context.Context, id string) error {
	c, err := s.current(ctx)
	if err != nil {
		return err
	}
	n := len(c.Products)
	c.Products = slices.DeleteFunc(c.Products, func(p domain.Product) bool { return p.ID == id })
	if len(c.Products) == n {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, id)
	}
	return s.SetOverride(ctx, c)
}

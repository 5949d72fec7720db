// Package pricing computes checkout totals from cart lines. Amounts stay
// unrounded; rounding belongs to display.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

var ErrUnresolvedProduct = errors.New("cart references a product that no longer exists")

// UnresolvedLinesError lists cart items whose product is missing from the catalog.
type UnresolvedLinesError struct {
	ProductIDs []string
}

func (e *UnresolvedLinesError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnresolvedProduct, strings.Join(e.ProductIDs, ", "))
}

func (e *UnresolvedLinesError) Is(target error) bool {
	return target == ErrUnresolvedProduct
}

type QuotedLine struct {
	Item      domain.CartItem
	Product   *domain.Product
	LineTotal decimal.Decimal
}

type Quote struct {
	Currency   string
	TaxRate    decimal.Decimal
	Lines      []QuotedLine
	Totals     domain.Totals
	Unresolved []string
}

// Err reports unresolved lines. The totals are still computed without them.
func (q Quote) Err() error {
	if len(q.Unresolved) == 0 {
		return nil
	}
	return &UnresolvedLinesError{ProductIDs: q.Unresolved}
}

// ResolveLines pairs each item with its catalog product, nil when missing.
func ResolveLines(items []domain.CartItem, catalog *domain.Catalog) []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.CartLine{Item: it, Product: catalog.FindProduct(it.ProductID)})
	}
	return lines
}

func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ShippingCost is the price of the selected method, zero when none matches.
func ShippingCost(cfg *domain.CheckoutConfig, shippingMethodID string) decimal.Decimal {
	if m := cfg.FindShipping(shippingMethodID); m != nil {
		return m.Price
	}
	return decimal.Zero
}

// Tax applies rate to subtotal plus shipping: shipping is taxed.
func Tax(subtotal, shipping, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Add(shipping).Mul(rate)
}

func Calculate(lines []domain.CartLine, currency string, cfg *domain.CheckoutConfig, shippingMethodID string) Quote {
	q := Quote{
		Currency: currency,
		TaxRate:  cfg.TaxRate,
		Lines:    make([]QuotedLine, 0, len(lines)),
	}

	subtotal := decimal.Zero
	for _, l := range lines {
		ql := QuotedLine{Item: l.Item, Product: l.Product, LineTotal: decimal.Zero}
		if l.Resolved() {
			ql.LineTotal = LineTotal(l.Product.Price, l.Item.Quantity)
			subtotal = subtotal.Add(ql.LineTotal)
		} else {
			q.Unresolved = append(q.Unresolved, l.Item.ProductID)
		}
		q.Lines = append(q.Lines, ql)
	}

	shipping := ShippingCost(cfg, shippingMethodID)
	tax := Tax(subtotal, shipping, cfg.TaxRate)

	q.Totals = domain.Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
	return q
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address1   string `json:"address1"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type ShippingSnapshot struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type PaymentSnapshot struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// OrderItem is copied from the catalog when the order is placed and never
// recomputed afterwards.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shipping"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type Order struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"createdAt"`
	Currency  string           `json:"currency"`
	TaxRate   decimal.Decimal  `json:"taxRate"`
	Customer  Customer         `json:"customer"`
	Shipping  ShippingSnapshot `json:"shipping"`
	Payment   PaymentSnapshot  `json:"payment"`
	Items     []OrderItem      `json:"items"`
	Totals    Totals           `json:"totals"`
}

// ItemCount is the number of units across all order lines.
func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

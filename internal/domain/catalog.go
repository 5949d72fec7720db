package domain

import "github.com/shopspring/decimal"

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Product is a catalog entry. A nil Stock means unlimited availability.
type Product struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	Images      []string        `json:"images" yaml:"images"`
	Stock       *int            `json:"stock,omitempty" yaml:"stock,omitempty"`
	CategoryID  string          `json:"categoryId" yaml:"categoryId"`
}

func (p Product) HasStockLimit() bool {
	return p.Stock != nil
}

type Catalog struct {
	Currency   string     `json:"currency" yaml:"currency"`
	Categories []Category `json:"categories" yaml:"categories"`
	Products   []Product  `json:"products" yaml:"products"`
}

// FindProduct returns a pointer into the catalog, or nil.
func (c *Catalog) FindProduct(id string) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

func (c *Catalog) FindCategory(id string) *Category {
	for i := range c.Categories {
		if c.Categories[i].ID == id {
			return &c.Categories[i]
		}
	}
	return nil
}

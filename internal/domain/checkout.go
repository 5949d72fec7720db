package domain

import "github.com/shopspring/decimal"

type ShippingMethod struct {
	ID      string          `json:"id" yaml:"id"`
	Name    string          `json:"name" yaml:"name"`
	Price   decimal.Decimal `json:"price" yaml:"price"`
	ETADays [2]int          `json:"etaDays" yaml:"etaDays"`
}

type PaymentMethod struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// CheckoutConfig is read-only to the core. TaxRate is a fraction (0.21 for 21%).
type CheckoutConfig struct {
	ShippingMethods []ShippingMethod `json:"shippingMethods" yaml:"shippingMethods"`
	PaymentMethods  []PaymentMethod  `json:"paymentMethods" yaml:"paymentMethods"`
	TaxRate         decimal.Decimal  `json:"taxRate" yaml:"taxRate"`
}

func (c *CheckoutConfig) FindShipping(id string) *ShippingMethod {
	for i := range c.ShippingMethods {
		if c.ShippingMethods[i].ID == id {
			return &c.ShippingMethods[i]
		}
	}
	return nil
}

func (c *CheckoutConfig) FindPayment(id string) *PaymentMethod {
	for i := range c.PaymentMethods {
		if c.PaymentMethods[i].ID == id {
			return &c.PaymentMethods[i]
		}
	}
	return nil
}

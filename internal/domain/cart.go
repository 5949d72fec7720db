package domain

type Cart struct {
	Items []CartItem `json:"items"`
}

type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartLine pairs a cart item with the product it currently resolves to.
// Product is nil when the catalog no longer has the item.
type CartLine struct {
	Item    CartItem
	Product *Product
}

func (l CartLine) Resolved() bool {
	return l.Product != nil
}

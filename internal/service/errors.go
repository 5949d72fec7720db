package service

import "errors"

var (
	// ErrNotPersisted means the in-memory change was applied but storage did not take it.
	ErrNotPersisted = errors.New("change applied but not persisted")

	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrProductNotFound   = errors.New("product no longer exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidMethod     = errors.New("invalid shipping or payment method")
	ErrInvalidForm       = errors.New("invalid checkout form")
	ErrOrderNotFound     = errors.New("order not found")
)

// ValidationError is a checkout rejection with a message meant for the shopper.
// It unwraps to one of the sentinel errors above.
type ValidationError struct {
	Kind      error
	Message   string
	ProductID string
	// Available is the stock left when Kind is ErrInsufficientStock.
	Available int
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

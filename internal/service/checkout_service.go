package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// CheckoutForm is what the shopper submits on the checkout page.
type CheckoutForm struct {
	FullName         string `validate:"min=2"`
	Email            string `validate:"required,email"`
	Phone            string `validate:"min=6,max=30"`
	Address1         string `validate:"min=3"`
	City             string `validate:"min=2"`
	PostalCode       string `validate:"min=2"`
	Country          string `validate:"min=2"`
	ShippingMethodID string `validate:"required"`
	PaymentMethodID  string `validate:"required"`
}

var fieldMessages = map[string]string{
	"FullName":         "Name is too short",
	"Email":            "Invalid email",
	"Phone":            "Invalid phone",
	"Address1":         "Invalid address",
	"City":             "Invalid city",
	"PostalCode":       "Invalid postal code",
	"Country":          "Invalid country",
	"ShippingMethodID": "Choose a shipping method",
	"PaymentMethodID":  "Choose a payment method",
}

// FormError maps form field names to shopper-facing messages.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return strings.Join(parts, "; ")
}

func (e *FormError) Unwrap() error {
	return ErrInvalidForm
}

func (f CheckoutForm) request() OrderRequest {
	return OrderRequest{
		Customer: domain.Customer{
			FullName:   f.FullName,
			Email:      f.Email,
			Phone:      f.Phone,
			Address1:   f.Address1,
			City:       f.City,
			PostalCode: f.PostalCode,
			Country:    f.Country,
		},
		ShippingMethodID: f.ShippingMethodID,
		PaymentMethodID:  f.PaymentMethodID,
	}
}

const DefaultCountry = "Spain"

// DefaultForm pre-selects the first shipping and payment methods.
func DefaultForm(cfg *domain.CheckoutConfig) CheckoutForm {
	f := CheckoutForm{Country: DefaultCountry}
	if len(cfg.ShippingMethods) > 0 {
		f.ShippingMethodID = cfg.ShippingMethods[0].ID
	}
	if len(cfg.PaymentMethods) > 0 {
		f.PaymentMethodID = cfg.PaymentMethods[0].ID
	}
	return f
}

// CheckoutService turns the current cart into an order.
type CheckoutService struct {
	cart     *CartService
	orders   *OrderService
	validate *validator.Validate
	log      *zap.Logger
}

func NewCheckoutService(cart *CartService, orders *OrderService, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		orders:   orders,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (s *CheckoutService) ValidateForm(form CheckoutForm) error {
	err := s.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate checkout form: %w", err)
	}

	fe := &FormError{Fields: make(map[string]string, len(verrs))}
	for _, v := range verrs {
		fe.Fields[v.StructField()] = fieldMessages[v.StructField()]
	}
	return fe
}

// Quote prices the current cart with the given shipping method.
func (s *CheckoutService) Quote(catalog *domain.Catalog, cfg *domain.CheckoutConfig, shippingMethodID string) pricing.Quote {
	return pricing.Calculate(s.cart.Lines(catalog), catalog.Currency, cfg, shippingMethodID)
}

// PlaceOrder validates the form, creates the order and empties the cart.
// The cart is only cleared once the order has been stored.
func (s *CheckoutService) PlaceOrder(
	ctx context.Context,
	form CheckoutForm,
	catalog *domain.Catalog,
	cfg *domain.CheckoutConfig) (*domain.Order, error) {

	ctx, span := tracer.Start(ctx, "CheckoutService.PlaceOrder")
	defer span.End()

	if err := s.ValidateForm(form); err != nil {
		return nil, err
	}

	order, err := s.orders.CreateOrder(ctx, form.request(), s.cart.Lines(catalog), catalog.Currency, cfg)
	if err != nil {
		return order, err
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		logger.WithContext(ctx, s.log).Warn("order stored but cart not cleared",
			zap.String("order_id", order.ID), zap.Error(err))
		return order, err
	}
	return order, nil
}

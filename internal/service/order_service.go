package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/pricing"
	"github.com/fjod/storefront/internal/repository"
	"github.com/fjod/storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const OrdersKey = "orders-v1"

// NewOrderID builds "ord_<unix ms>_<6 hex>". Collisions are not checked.
func NewOrderID(now time.Time) string {
	u := uuid.New()
	return fmt.Sprintf("ord_%d_%s", now.UnixMilli(), hex.EncodeToString(u[:3]))
}

type OrderRequest struct {
	Customer         domain.Customer
	ShippingMethodID string
	PaymentMethodID  string
}

// OrderService keeps the order history under OrdersKey, newest first.
type OrderService struct {
	store repository.Store
	log   *zap.Logger
	now   func() time.Time
	newID func(time.Time) string
}

func NewOrderService(store repository.Store, log *zap.Logger) *OrderService {
	return &OrderService{
		store: store,
		log:   log,
		now:   time.Now,
		newID: NewOrderID,
	}
}

// CreateOrder re-validates the cart lines against the current catalog data
// and checkout config, then snapshots and stores the order. Validation
// failures are *ValidationError and store nothing. If the order was built but
// could not be stored, it is returned together with an ErrNotPersisted error.
func (s *OrderService) CreateOrder(
	ctx context.Context,
	req OrderRequest,
	lines []domain.CartLine,
	currency string,
	cfg *domain.CheckoutConfig) (*domain.Order, error) {

	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()
	log := logger.WithContext(ctx, s.log)

	shipping, payment, err := validateOrder(req, lines, cfg)
	if err != nil {
		log.Info("order rejected", zap.Error(err))
		return nil, err
	}

	quote := pricing.Calculate(lines, currency, cfg, shipping.ID)

	items := make([]domain.OrderItem, 0, len(quote.Lines))
	for _, l := range quote.Lines {
		items = append(items, domain.OrderItem{
			ProductID: l.Item.ProductID,
			Name:      l.Product.Name,
			UnitPrice: l.Product.Price,
			Quantity:  l.Item.Quantity,
			LineTotal: l.LineTotal,
		})
	}

	now := s.now()
	order := &domain.Order{
		ID:        s.newID(now),
		CreatedAt: now.UTC(),
		Currency:  currency,
		TaxRate:   cfg.TaxRate,
		Customer:  req.Customer,
		Shipping:  domain.ShippingSnapshot{ID: shipping.ID, Name: shipping.Name, Price: shipping.Price},
		Payment:   domain.PaymentSnapshot{ID: payment.ID, Name: payment.Name},
		Items:     items,
		Totals:    quote.Totals,
	}

	orders, err := repository.Load(ctx, s.store, OrdersKey, []domain.Order{})
	if err != nil {
		log.Warn("order history unreadable, order not stored", zap.String("order_id", order.ID), zap.Error(err))
		return order, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	next := make([]domain.Order, 0, len(orders)+1)
	next = append(next, *order)
	next = append(next, orders...)

	if err := repository.Write(ctx, s.store, OrdersKey, next); err != nil {
		log.Warn("order not persisted", zap.String("order_id", order.ID), zap.Error(err))
		return order, fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}

	log.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int("items", order.ItemCount()),
		zap.String("total", order.Totals.Total.String()))
	return order, nil
}

func validateOrder(req OrderRequest, lines []domain.CartLine, cfg *domain.CheckoutConfig) (*domain.ShippingMethod, *domain.PaymentMethod, error) {
	if len(lines) == 0 {
		return nil, nil, &ValidationError{Kind: ErrEmptyCart, Message: "Your cart is empty."}
	}

	for _, l := range lines {
		if !l.Resolved() {
			return nil, nil, &ValidationError{
				Kind:      ErrProductNotFound,
				Message:   "A product in your cart no longer exists.",
				ProductID: l.Item.ProductID,
			}
		}
		if l.Product.HasStockLimit() && l.Item.Quantity > *l.Product.Stock {
			return nil, nil, &ValidationError{
				Kind:      ErrInsufficientStock,
				Message:   fmt.Sprintf("Not enough stock of %q. Available: %d", l.Product.Name, *l.Product.Stock),
				ProductID: l.Item.ProductID,
				Available: *l.Product.Stock,
			}
		}
	}

	shipping := cfg.FindShipping(req.ShippingMethodID)
	payment := cfg.FindPayment(req.PaymentMethodID)
	if shipping == nil || payment == nil {
		return nil, nil, &ValidationError{Kind: ErrInvalidMethod, Message: "Invalid shipping or payment method."}
	}
	return shipping, payment, nil
}

// GetOrders returns the stored history, newest first.
func (s *OrderService) GetOrders(ctx context.Context) []domain.Order {
	return repository.Read(ctx, s.store, OrdersKey, []domain.Order{})
}

func (s *OrderService) FindOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	for _, o := range s.GetOrders(ctx) {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, ErrOrderNotFound
}

package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/shipping"
)

var ErrEmptyCart = errors.New("cart is empty")

// EventPublisher emits the order.placed event after an order is persisted.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
}

// PlacementService turns a session's cart into a persisted pending order.
type PlacementService struct {
	orders    Repository
	carts     cart.Repository
	shipping  shipping.Repository
	publisher EventPublisher
	taxRate   decimal.Decimal
	logger    *log.Logger
}

func NewPlacementService(
	orders Repository,
	carts cart.Repository,
	shippingRepo shipping.Repository,
	publisher EventPublisher,
	taxRate decimal.Decimal,
	logger *log.Logger,
) *PlacementService {
	return &PlacementService{
		orders:    orders,
		carts:     carts,
		shipping:  shippingRepo,
		publisher: publisher,
		taxRate:   taxRate,
		logger:    logger,
	}
}

// PlaceOrder composes totals from the session's cart and applied discount,
// persists the order and empties the session. The discount's usage count is
// not touched here; that happens when the order completes.
func (s *PlacementService) PlaceOrder(ctx context.Context, sess *session.Session, shippingMethodID string) (*Order, error) {
	lines := sess.Cart().Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	method, err := s.shipping.GetByID(ctx, shippingMethodID)
	if err != nil {
		if errors.Is(err, shipping.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load shipping method: %w", err)
	}

	var applied *discount.Applied
	if a, ok := sess.Applied(); ok {
		applied = &a
	}

	totals := pricing.Compose(sess.Cart().Total(), applied, method.Price, s.taxRate)

	o := &Order{
		UserID:         sess.UserID(),
		Status:         StatusPending,
		Subtotal:       totals.Subtotal,
		DiscountCode:   totals.DiscountCode,
		DiscountAmount: totals.DiscountAmount,
		ShippingMethod: method.ID,
		ShippingAmount: totals.ShippingAmount,
		TaxAmount:      totals.TaxAmount,
		TotalAmount:    totals.TotalAmount,
		CreatedAt:      time.Now().UTC(),
	}
	for _, l := range lines {
		o.Items = append(o.Items, Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// The order is already persisted; a lost event is logged, not fatal.
	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Printf("publish order.placed for %s: %v", o.ID, err)
	}

	sess.Cart().Clear()
	sess.RemoveDiscount()
	if err := s.carts.Clear(ctx, sess.UserID()); err != nil {
		s.logger.Printf("clear stored cart for %s: %v", sess.UserID(), err)
	}

	s.logger.Printf("placed order %s for user %s (total %s)", o.ID, o.UserID, o.TotalAmount)
	return o, nil
}

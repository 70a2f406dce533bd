package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

const (
	orderPlacedEventName    = "OrderPlaced"
	orderPlacedEventVersion = 1
	orderPlacedSchema       = "contracts/events/storefront/OrderPlaced.v1.payload.schema.json"
)

type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderPlacedPayload represents the v1 payload schema.
type OrderPlacedPayload struct {
	OrderID        string          `json:"orderId"`
	UserID         string          `json:"userId"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountCode   string          `json:"discountCode,omitempty"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	ShippingAmount decimal.Decimal `json:"shippingAmount"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Timestamp      time.Time       `json:"timestamp"`
}

// OrderPlacedEnvelope is the enveloped event structure.
type OrderPlacedEnvelope = EventEnvelope[OrderPlacedPayload]

// BuildOrderPlacedEnvelope builds an enveloped OrderPlaced event. The
// sequence is per user so consumers can detect gaps and duplicates within
// one shopper's stream.
func BuildOrderPlacedEnvelope(o *order.Order, seq int64, meta EnvelopeMetadata) OrderPlacedEnvelope {
	if meta.CorrelationID == "" {
		meta.CorrelationID = uuid.NewString()
	}

	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}

	return OrderPlacedEnvelope{
		EventName:     orderPlacedEventName,
		EventVersion:  orderPlacedEventVersion,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      consumerName,
		PartitionKey:  o.UserID,
		Sequence:      &seq,
		OccurredAt:    time.Now().UTC(),
		Schema:        orderPlacedSchema,
		Payload: OrderPlacedPayload{
			OrderID:        o.ID,
			UserID:         o.UserID,
			Items:          items,
			Subtotal:       o.Subtotal,
			DiscountCode:   o.DiscountCode,
			DiscountAmount: o.DiscountAmount,
			ShippingAmount: o.ShippingAmount,
			TaxAmount:      o.TaxAmount,
			TotalAmount:    o.TotalAmount,
			Timestamp:      o.CreatedAt,
		},
	}
}

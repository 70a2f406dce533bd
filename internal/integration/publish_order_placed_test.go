package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/sequence"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/testutil"
)

func TestPublisher_PublishesOrderPlacedEnvelope(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, _, cleanupDB := testutil.StartPostgres(ctx, t)
	t.Cleanup(cleanupDB)
	truncateTables(t, db)

	conn, cleanupMQ := testutil.StartRabbitMQ(t)
	t.Cleanup(cleanupMQ)

	publisher, err := events.NewPublisher(conn, sequence.NewRepository(db))
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Close() })

	placedCh := make(chan events.OrderPlacedEnvelope, 2)

	consumeCh, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = consumeCh.Close() })

	msgs, err := consumeCh.Consume(
		events.OrderPlacedQueue,
		"integration-order-placed",
		true,  // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	require.NoError(t, err)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var env events.OrderPlacedEnvelope
				if err := json.Unmarshal(msg.Body, &env); err != nil {
					continue
				}
				placedCh <- env
			}
		}
	}()

	o := &order.Order{
		ID:             "33333333-3333-3333-3333-333333333333",
		UserID:         "user-pub",
		Status:         order.StatusPending,
		Subtotal:       decimal.RequireFromString("120.00"),
		DiscountCode:   "SAVE20",
		DiscountAmount: decimal.RequireFromString("24.00"),
		ShippingMethod: "standard",
		ShippingAmount: decimal.RequireFromString("4.99"),
		TaxAmount:      decimal.RequireFromString("9.60"),
		TotalAmount:    decimal.RequireFromString("110.59"),
		CreatedAt:      time.Now().UTC().Truncate(time.Millisecond),
		Items: []order.Item{
			{ProductID: "p-runners", Name: "Road Runners", Quantity: 2, UnitPrice: decimal.RequireFromString("60.00")},
		},
	}

	require.NoError(t, publisher.PublishOrderPlaced(ctx, o))

	var got events.OrderPlacedEnvelope
	require.Eventually(t, func() bool {
		select {
		case env := <-placedCh:
			got = env
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	require.Equal(t, "OrderPlaced", got.EventName)
	require.Equal(t, 1, got.EventVersion)
	require.NotEmpty(t, got.EventID)
	require.NotEmpty(t, got.CorrelationID)
	require.Equal(t, "storefront-service", got.Producer)
	require.Equal(t, o.UserID, got.PartitionKey)
	require.NotNil(t, got.Sequence)
	require.Equal(t, int64(1), *got.Sequence)
	require.Equal(t, o.ID, got.Payload.OrderID)
	require.Equal(t, o.UserID, got.Payload.UserID)
	require.Equal(t, "SAVE20", got.Payload.DiscountCode)
	require.True(t, got.Payload.TotalAmount.Equal(o.TotalAmount))
	require.Len(t, got.Payload.Items, 1)
	require.Equal(t, 2, got.Payload.Items[0].Quantity)

	// same user again, sequence moves on
	o.ID = "44444444-4444-4444-4444-444444444444"
	require.NoError(t, publisher.PublishOrderPlaced(ctx, o))

	require.Eventually(t, func() bool {
		select {
		case env := <-placedCh:
			got = env
			return true
		default:
			return false
		}
	}, 5*time.Second, 100*time.Millisecond)

	require.NotNil(t, got.Sequence)
	require.Equal(t, int64(2), *got.Sequence)
}

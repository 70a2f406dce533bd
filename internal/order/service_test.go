package order

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/discount"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/session"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/shipping"
)

type fakeOrders struct {
	created   *Order
	createErr error
}

func (f *fakeOrders) Create(ctx context.Context, o *Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = "order-1"
	f.created = o
	return nil
}

func (f *fakeOrders) GetByID(ctx context.Context, orderID string) (*Order, error) { return nil, nil }

func (f *fakeOrders) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return nil, nil
}

func (f *fakeOrders) CompleteTx(ctx context.Context, tx *sql.Tx, orderID string) (CompletionState, error) {
	return CompletionState{}, nil
}

type fakeCarts struct {
	cleared []string
}

func (f *fakeCarts) Get(ctx context.Context, userID string) (*cart.Snapshot, error) { return nil, nil }
func (f *fakeCarts) Upsert(ctx context.Context, s *cart.Snapshot) error            { return nil }
func (f *fakeCarts) Clear(ctx context.Context, userID string) error {
	f.cleared = append(f.cleared, userID)
	return nil
}

type fakeShipping struct {
	methods map[string]shipping.Method
}

func (f *fakeShipping) ListActive(ctx context.Context) ([]shipping.Method, error) { return nil, nil }
func (f *fakeShipping) GetByID(ctx context.Context, id string) (shipping.Method, error) {
	m, ok := f.methods[id]
	if !ok {
		return shipping.Method{}, shipping.ErrNotFound
	}
	return m, nil
}

type fakePublisher struct {
	published  []*Order
	publishErr error
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o *Order) error {
	f.published = append(f.published, o)
	return f.publishErr
}

func dc(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func standardShipping() *fakeShipping {
	return &fakeShipping{methods: map[string]shipping.Method{
		"standard": {ID: "standard", Name: "Standard", Price: dc("4.99"), Active: true},
	}}
}

type staticLookup map[string]discount.Code

func (l staticLookup) FindByCode(ctx context.Context, code string) (discount.Code, error) {
	rec, ok := l[code]
	if !ok {
		return discount.Code{}, discount.ErrNotFound
	}
	return rec, nil
}

func TestPlaceOrder(t *testing.T) {
	orders := &fakeOrders{}
	carts := &fakeCarts{}
	pub := &fakePublisher{}
	svc := NewPlacementService(orders, carts, standardShipping(), pub, dc("0.25"), discardLogger())

	sess := session.New("user-1")
	sess.Cart().AddItem(catalog.Product{ID: "p1", Name: "Running Shoes", Category: "shoes", Price: dc("100.00"), InStock: true})

	v := discount.NewValidator(staticLookup{
		"SAVE15": {Code: "SAVE15", Type: discount.TypeFixed, Value: dc("15"), Active: true},
	})
	_, err := sess.ApplyDiscount(context.Background(), v, "SAVE15")
	require.NoError(t, err)

	o, err := svc.PlaceOrder(context.Background(), sess, "standard")
	require.NoError(t, err)

	require.Equal(t, "order-1", o.ID)
	require.Equal(t, StatusPending, o.Status)
	require.Equal(t, "SAVE15", o.DiscountCode)
	require.True(t, o.Subtotal.Equal(dc("100.00")), "subtotal = %s", o.Subtotal)
	require.True(t, o.DiscountAmount.Equal(dc("15.00")), "discount = %s", o.DiscountAmount)
	require.True(t, o.TaxAmount.Equal(dc("21.25")), "tax = %s", o.TaxAmount)
	require.True(t, o.TotalAmount.Equal(dc("111.24")), "total = %s", o.TotalAmount)
	require.Len(t, o.Items, 1)
	require.Equal(t, "Running Shoes", o.Items[0].Name)

	require.Len(t, pub.published, 1)
	require.Equal(t, []string{"user-1"}, carts.cleared)

	// Session is emptied once the order exists.
	require.Zero(t, sess.Cart().ItemCount())
	if _, ok := sess.Applied(); ok {
		t.Fatalf("discount survived order placement")
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc := NewPlacementService(&fakeOrders{}, &fakeCarts{}, standardShipping(), &fakePublisher{}, dc("0.25"), discardLogger())

	_, err := svc.PlaceOrder(context.Background(), session.New("user-1"), "standard")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderUnknownShippingMethod(t *testing.T) {
	svc := NewPlacementService(&fakeOrders{}, &fakeCarts{}, standardShipping(), &fakePublisher{}, dc("0.25"), discardLogger())

	sess := session.New("user-1")
	sess.Cart().AddItem(catalog.Product{ID: "p1", Name: "Hat", Category: "hats", Price: dc("10.00"), InStock: true})

	_, err := svc.PlaceOrder(context.Background(), sess, "teleport")
	require.ErrorIs(t, err, shipping.ErrNotFound)
}

func TestPlaceOrderCreateFailureKeepsCart(t *testing.T) {
	orders := &fakeOrders{createErr: errors.New("db down")}
	svc := NewPlacementService(orders, &fakeCarts{}, standardShipping(), &fakePublisher{}, dc("0.25"), discardLogger())

	sess := session.New("user-1")
	sess.Cart().AddItem(catalog.Product{ID: "p1", Name: "Hat", Category: "hats", Price: dc("10.00"), InStock: true})

	_, err := svc.PlaceOrder(context.Background(), sess, "standard")
	require.Error(t, err)
	require.Equal(t, 1, sess.Cart().ItemCount())
}

func TestPlaceOrderPublishFailureStillSucceeds(t *testing.T) {
	orders := &fakeOrders{}
	pub := &fakePublisher{publishErr: errors.New("broker down")}
	svc := NewPlacementService(orders, &fakeCarts{}, standardShipping(), pub, dc("0.25"), discardLogger())

	sess := session.New("user-1")
	sess.Cart().AddItem(catalog.Product{ID: "p1", Name: "Hat", Category: "hats", Price: dc("10.00"), InStock: true})

	o, err := svc.PlaceOrder(context.Background(), sess, "standard")
	require.NoError(t, err)
	require.NotNil(t, orders.created)
	require.Equal(t, o.ID, orders.created.ID)
}

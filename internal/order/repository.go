package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CompletionState reports what the completion transition observed.
type CompletionState struct {
	UserID       string
	DiscountCode string
	Completed    bool
}

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	CompleteTx(ctx context.Context, tx *sql.Tx, orderID string) (CompletionState, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = StatusPending
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, status, subtotal, discount_code, discount_amount,
	                         shipping_method, shipping_amount, tax_amount, total_amount, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		o.ID, o.UserID, o.Status, o.Subtotal, nullString(o.DiscountCode), o.DiscountAmount,
		o.ShippingMethod, o.ShippingAmount, o.TaxAmount, o.TotalAmount, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, quantity, unit_price)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var (
		o    Order
		code sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, subtotal, discount_code, discount_amount,
	            shipping_method, shipping_amount, tax_amount, total_amount, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.Subtotal, &code, &o.DiscountAmount,
		&o.ShippingMethod, &o.ShippingAmount, &o.TaxAmount, &o.TotalAmount, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}
	o.DiscountCode = code.String

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items

	return &o, nil
}

func (r *repo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, status, subtotal, discount_code, discount_amount,
	            shipping_method, shipping_amount, tax_amount, total_amount, created_at
         FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var (
			o    Order
			code sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Subtotal, &code, &o.DiscountAmount,
			&o.ShippingMethod, &o.ShippingAmount, &o.TaxAmount, &o.TotalAmount, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.DiscountCode = code.String
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

// CompleteTx transitions a pending order to completed inside the caller's
// transaction. A second delivery for the same order sees no pending row and
// reports Completed=false, so follow-up effects run at most once.
func (r *repo) CompleteTx(ctx context.Context, tx *sql.Tx, orderID string) (CompletionState, error) {
	var (
		state CompletionState
		code  sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		`UPDATE orders SET status = $1
         WHERE id = $2 AND status = $3
         RETURNING user_id, discount_code`,
		StatusCompleted, orderID, StatusPending,
	).Scan(&state.UserID, &code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CompletionState{}, nil
		}
		return CompletionState{}, fmt.Errorf("complete order: %w", err)
	}
	state.DiscountCode = code.String
	state.Completed = true
	return state, nil
}

func (r *repo) loadItems(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, quantity, unit_price
         FROM order_items WHERE order_id = $1`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

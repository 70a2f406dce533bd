package shipping

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("shipping method not found")

type Repository interface {
	ListActive(ctx context.Context) ([]Method, error)
	GetByID(ctx context.Context, id string) (Method, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// ListActive returns the active shipping methods, cheapest first.
func (r *repo) ListActive(ctx context.Context) ([]Method, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, price, estimated_days, is_active
		FROM shipping_methods
		WHERE is_active
		ORDER BY price`)
	if err != nil {
		return nil, fmt.Errorf("select shipping_methods: %w", err)
	}
	defer rows.Close()

	var methods []Method
	for rows.Next() {
		var m Method
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.EstimatedDays, &m.Active); err != nil {
			return nil, fmt.Errorf("scan shipping_method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return methods, nil
}

func (r *repo) GetByID(ctx context.Context, id string) (Method, error) {
	var m Method
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, price, estimated_days, is_active
		FROM shipping_methods
		WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.EstimatedDays, &m.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Method{}, ErrNotFound
		}
		return Method{}, fmt.Errorf("select shipping_method: %w", err)
	}
	return m, nil
}

package cart

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the persisted form of a cart: the aggregator exposes its lines
// and total, and the repository stores them wholesale on every change.
type Snapshot struct {
	ID        string          `json:"cartId"`
	UserID    string          `json:"userId"`
	Lines     []Line          `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Repository interface {
	Get(ctx context.Context, userID string) (*Snapshot, error)
	Upsert(ctx context.Context, s *Snapshot) error
	Clear(ctx context.Context, userID string) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Get(ctx context.Context, userID string) (*Snapshot, error) {
	var s Snapshot
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, total, updated_at FROM carts WHERE user_id = $1`,
		userID,
	).Scan(&s.ID, &s.UserID, &s.Total, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// caller (handler) can turn this into 404
			return nil, nil
		}
		return nil, fmt.Errorf("select cart: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, category, unit_price, quantity
		FROM cart_lines WHERE cart_id = $1 ORDER BY position`,
		s.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("select cart_lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ln Line
		if err := rows.Scan(&ln.ProductID, &ln.Name, &ln.Category, &ln.UnitPrice, &ln.Quantity); err != nil {
			return nil, fmt.Errorf("scan cart_line: %w", err)
		}
		s.Lines = append(s.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &s, nil
}

func (r *repo) Upsert(ctx context.Context, s *Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO carts (id, user_id, total, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET total = EXCLUDED.total, updated_at = NOW()
		RETURNING id, updated_at`,
		s.ID, s.UserID, s.Total,
	).Scan(&s.ID, &s.UpdatedAt); err != nil {
		return fmt.Errorf("upsert cart: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, s.ID); err != nil {
		return fmt.Errorf("delete cart_lines: %w", err)
	}

	for i, ln := range s.Lines {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cart_lines (id, cart_id, position, product_id, name, category, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.NewString(), s.ID, i, ln.ProductID, ln.Name, ln.Category, ln.UnitPrice, ln.Quantity,
		); err != nil {
			return fmt.Errorf("insert cart_line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

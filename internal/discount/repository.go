package discount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository is the external discount-code store. FindByCode serves the
// validator; RecordUsage is invoked by the order-completion flow only.
type Repository interface {
	Lookup
	RecordUsage(ctx context.Context, code string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) FindByCode(ctx context.Context, code string) (Code, error) {
	var (
		rec         Code
		minOrder    decimal.NullDecimal
		maxDiscount decimal.NullDecimal
		usageLimit  sql.NullInt64
		expiresAt   sql.NullTime
	)

	row := r.pool.QueryRow(ctx, `
		SELECT code, type, value, min_order_amount, max_discount_amount,
		       usage_limit, used_count, expires_at, is_active
		FROM discount_codes
		WHERE code = $1`, code)
	if err := row.Scan(
		&rec.Code, &rec.Type, &rec.Value, &minOrder, &maxDiscount,
		&usageLimit, &rec.UsedCount, &expiresAt, &rec.Active,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Code{}, ErrNotFound
		}
		return Code{}, fmt.Errorf("select discount_code: %w", err)
	}

	if minOrder.Valid {
		v := minOrder.Decimal
		rec.MinOrderAmount = &v
	}
	if maxDiscount.Valid {
		v := maxDiscount.Decimal
		rec.MaxDiscountAmount = &v
	}
	if usageLimit.Valid {
		v := int(usageLimit.Int64)
		rec.UsageLimit = &v
	}
	if expiresAt.Valid {
		v := expiresAt.Time
		rec.ExpiresAt = &v
	}

	return rec, nil
}

// RecordUsage increments used_count for a redeemed code. The validator never
// calls this; it runs after an order successfully completes.
func (r *PostgresRepository) RecordUsage(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE discount_codes
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE code = $1`, Canonicalize(code))
	if err != nil {
		return fmt.Errorf("update used_count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type Repository interface {
	LoadAll(ctx context.Context) ([]Product, error)
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

// LoadAll reads the full product list in catalog order. The position column
// pins the order that ranking tie-breaks depend on.
func (r *repo) LoadAll(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, category, price, original_price,
		       image_url, rating, reviews, in_stock, featured
		FROM products
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		var originalPrice decimal.NullDecimal
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
			&originalPrice, &p.ImageURL, &p.Rating, &p.Reviews,
			&p.InStock, &p.Featured,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if originalPrice.Valid {
			v := originalPrice.Decimal
			p.OriginalPrice = &v
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return products, nil
}

// internal/repository/postgres/product_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT sku, style_code, style_name, category, size, gender, cost_price, retail_price
		FROM products
		ORDER BY style_name, size
	`

	var products []domain.Product
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}
	return products, nil
}

// ReplaceProducts swaps the full product catalog inside one transaction.
func (r *productRepository) ReplaceProducts(ctx context.Context, products []domain.Product) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return fmt.Errorf("error clearing products: %w", err)
		}
		for _, p := range products {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO products (sku, style_code, style_name, category, size, gender, cost_price, retail_price)
				VALUES (:sku, :style_code, :style_name, :category, :size, :gender, :cost_price, :retail_price)
			`, p)
			if err != nil {
				return fmt.Errorf("error inserting product %s: %w", p.SKU, err)
			}
		}
		return nil
	})
}

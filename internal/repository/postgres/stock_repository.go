// internal/repository/postgres/stock_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

type stockRepository struct {
	db *DB
}

func NewStockRepository(db *DB) repository.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) ListStockPositions(ctx context.Context) ([]domain.StockPosition, error) {
	query := `
		SELECT store_id, sku, quantity, last_updated
		FROM stock_levels
		ORDER BY store_id, sku
	`

	var positions []domain.StockPosition
	if err := r.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, fmt.Errorf("error listing stock positions: %w", err)
	}
	return positions, nil
}

// ReplaceStockPositions swaps all stock levels inside one transaction so an
// evaluation never observes a half-replaced dataset.
func (r *stockRepository) ReplaceStockPositions(ctx context.Context, positions []domain.StockPosition) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM stock_levels`); err != nil {
			return fmt.Errorf("error clearing stock levels: %w", err)
		}
		for _, p := range positions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO stock_levels (store_id, sku, quantity, last_updated)
				VALUES ($1, $2, $3, NOW())
				ON CONFLICT (store_id, sku) DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = NOW()
			`, p.StoreID, p.SKU, p.Quantity)
			if err != nil {
				return fmt.Errorf("error inserting stock for %s/%s: %w", p.StoreID, p.SKU, err)
			}
		}
		return nil
	})
}

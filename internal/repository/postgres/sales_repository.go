// internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListSalesSince(ctx context.Context, since time.Time) ([]domain.SaleEvent, error) {
	query := `
		SELECT sale_id, store_id, sku, sale_date, quantity, revenue
		FROM sales
		WHERE sale_date >= $1
		ORDER BY sale_date, sale_id
	`

	var events []domain.SaleEvent
	if err := r.db.SelectContext(ctx, &events, query, since); err != nil {
		return nil, fmt.Errorf("error listing sales: %w", err)
	}
	return events, nil
}

func (r *salesRepository) AppendSales(ctx context.Context, events []domain.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}

	stmt, err := r.db.PreparexContext(ctx, `
		INSERT INTO sales (store_id, sku, sale_date, quantity, revenue)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("error preparing sales insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.StoreID, ev.SKU, ev.SaleDate, ev.Quantity, ev.Revenue); err != nil {
			return fmt.Errorf("error inserting sale for %s/%s: %w", ev.StoreID, ev.SKU, err)
		}
	}
	return nil
}

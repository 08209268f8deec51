// internal/repository/postgres/store_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) ListStores(ctx context.Context, activeOnly bool) ([]domain.Store, error) {
	query := `
		SELECT store_id, store_name, store_type, location, is_active
		FROM stores
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	// Online stores first, then physical by name
	query += ` ORDER BY store_type, store_name`

	var stores []domain.Store
	if err := r.db.SelectContext(ctx, &stores, query); err != nil {
		return nil, fmt.Errorf("error listing stores: %w", err)
	}
	return stores, nil
}

func (r *storeRepository) ReplaceStores(ctx context.Context, stores []domain.Store) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM stores`); err != nil {
			return fmt.Errorf("error clearing stores: %w", err)
		}
		for _, s := range stores {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO stores (store_id, store_name, store_type, location, is_active)
				VALUES (:store_id, :store_name, :store_type, :location, :is_active)
			`, s)
			if err != nil {
				return fmt.Errorf("error inserting store %s: %w", s.ID, err)
			}
		}
		return nil
	})
}

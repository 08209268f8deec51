// internal/repository/postgres/transfer_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

type transferRepository struct {
	db *DB
}

func NewTransferRepository(db *DB) repository.TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) CreateTransfer(ctx context.Context, rec *domain.TransferRecommendation) error {
	query := `
		INSERT INTO transfer_recommendations (from_store_id, to_store_id, sku, quantity, priority, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, recommendation_date
	`

	err := r.db.QueryRowxContext(ctx, query,
		rec.FromStoreID, rec.ToStoreID, rec.SKU, rec.Quantity, rec.Priority, rec.Status, rec.Reason,
	).Scan(&rec.ID, &rec.RecommendationDate)
	if err != nil {
		return fmt.Errorf("error creating transfer recommendation: %w", err)
	}
	return nil
}

func (r *transferRepository) ListTransfers(ctx context.Context, status string) ([]domain.TransferRecommendation, error) {
	query := `
		SELECT id, recommendation_date, from_store_id, to_store_id, sku, quantity, priority, status, reason
		FROM transfer_recommendations
	`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY recommendation_date DESC, id DESC`

	var recs []domain.TransferRecommendation
	if err := r.db.SelectContext(ctx, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("error listing transfer recommendations: %w", err)
	}
	return recs, nil
}

func (r *transferRepository) UpdateTransferStatus(ctx context.Context, id int64, status string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE transfer_recommendations SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("error updating transfer %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("error checking transfer update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transfer %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

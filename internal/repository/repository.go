// internal/repository/repository.go
package repository

import (
	"context"
	"time"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// StoreRepository reads store reference data
type StoreRepository interface {
	ListStores(ctx context.Context, activeOnly bool) ([]domain.Store, error)
	ReplaceStores(ctx context.Context, stores []domain.Store) error
}

// ProductRepository reads and bulk-reloads SKU reference data
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ReplaceProducts(ctx context.Context, products []domain.Product) error
}

// StockRepository reads and bulk-reloads current stock positions. A reload
// either fully completes or fully rolls back so an evaluation never reads a
// half-replaced dataset.
type StockRepository interface {
	ListStockPositions(ctx context.Context) ([]domain.StockPosition, error)
	ReplaceStockPositions(ctx context.Context, positions []domain.StockPosition) error
}

// SalesRepository reads the append-only sale event log
type SalesRepository interface {
	ListSalesSince(ctx context.Context, since time.Time) ([]domain.SaleEvent, error)
	AppendSales(ctx context.Context, events []domain.SaleEvent) error
}

// TransferRepository persists confirmed transfer recommendations
type TransferRepository interface {
	CreateTransfer(ctx context.Context, rec *domain.TransferRecommendation) error
	ListTransfers(ctx context.Context, status string) ([]domain.TransferRecommendation, error)
	UpdateTransferStatus(ctx context.Context, id int64, status string) error
}

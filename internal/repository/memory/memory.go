// internal/repository/memory/memory.go
//
// In-memory repository implementations. Used by the service tests and by the
// demo seed path; behaviour mirrors the postgres implementations, including
// replace-all atomicity (a swap under the mutex is all-or-nothing).
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// Repositories bundles all in-memory repositories over one shared dataset
type Repositories struct {
	mu sync.RWMutex

	stores    []domain.Store
	products  []domain.Product
	stock     []domain.StockPosition
	sales     []domain.SaleEvent
	transfers []domain.TransferRecommendation

	nextSaleID     int64
	nextTransferID int64
}

func NewRepositories() *Repositories {
	return &Repositories{nextSaleID: 1, nextTransferID: 1}
}

func (r *Repositories) ListStores(_ context.Context, activeOnly bool) ([]domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Store, 0, len(r.stores))
	for _, s := range r.stores {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	// Online stores first, then physical by name
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *Repositories) ReplaceStores(_ context.Context, stores []domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores = append([]domain.Store(nil), stores...)
	return nil
}

func (r *Repositories) ListProducts(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Product(nil), r.products...), nil
}

func (r *Repositories) ReplaceProducts(_ context.Context, products []domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append([]domain.Product(nil), products...)
	return nil
}

func (r *Repositories) ListStockPositions(_ context.Context) ([]domain.StockPosition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]domain.StockPosition(nil), r.stock...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StoreID != out[j].StoreID {
			return out[i].StoreID < out[j].StoreID
		}
		return out[i].SKU < out[j].SKU
	})
	return out, nil
}

func (r *Repositories) ReplaceStockPositions(_ context.Context, positions []domain.StockPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	replacement := make([]domain.StockPosition, 0, len(positions))
	seen := make(map[domain.PositionKey]int)
	for _, p := range positions {
		key := domain.PositionKey{StoreID: p.StoreID, SKU: p.SKU}
		p.LastUpdated = now
		if idx, ok := seen[key]; ok {
			// Unique per (store, SKU); the latest value replaces prior ones
			replacement[idx] = p
			continue
		}
		seen[key] = len(replacement)
		replacement = append(replacement, p)
	}
	r.stock = replacement
	return nil
}

func (r *Repositories) ListSalesSince(_ context.Context, since time.Time) ([]domain.SaleEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.SaleEvent, 0, len(r.sales))
	for _, ev := range r.sales {
		if ev.SaleDate.Before(since) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func (r *Repositories) AppendSales(_ context.Context, events []domain.SaleEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ev := range events {
		ev.ID = r.nextSaleID
		r.nextSaleID++
		r.sales = append(r.sales, ev)
	}
	return nil
}

func (r *Repositories) CreateTransfer(_ context.Context, rec *domain.TransferRecommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec.ID = r.nextTransferID
	r.nextTransferID++
	rec.RecommendationDate = time.Now()
	r.transfers = append(r.transfers, *rec)
	return nil
}

func (r *Repositories) ListTransfers(_ context.Context, status string) ([]domain.TransferRecommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.TransferRecommendation, 0, len(r.transfers))
	for _, t := range r.transfers {
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *Repositories) UpdateTransferStatus(_ context.Context, id int64, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.transfers {
		if r.transfers[i].ID == id {
			r.transfers[i].Status = status
			return nil
		}
	}
	return fmt.Errorf("transfer %d: %w", id, domain.ErrNotFound)
}

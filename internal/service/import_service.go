// internal/service/import_service.go
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/strideretail/stock-balancer/internal/cache"
	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/importer"
	"github.com/strideretail/stock-balancer/internal/repository"
)

// ImportService validates uploaded CSV datasets against the reference tables
// and loads them through the repositories. Records with missing references
// are skipped and counted, not fatal, so partial uploads still land.
type ImportService struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
	stock    repository.StockRepository
	sales    repository.SalesRepository
	cache    cache.EvaluationCache
}

func NewImportService(
	stores repository.StoreRepository,
	products repository.ProductRepository,
	stock repository.StockRepository,
	sales repository.SalesRepository,
	cacheImpl cache.EvaluationCache,
) *ImportService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopEvaluationCache()
	}
	return &ImportService{
		stores:   stores,
		products: products,
		stock:    stock,
		sales:    sales,
		cache:    cacheImpl,
	}
}

// ImportProducts replaces the product catalog from a CSV upload.
func (s *ImportService) ImportProducts(ctx context.Context, r io.Reader) (*importer.Result, error) {
	products, result, err := importer.ParseProducts(r)
	if err != nil {
		return nil, err
	}

	if err := s.products.ReplaceProducts(ctx, products); err != nil {
		return nil, fmt.Errorf("replacing products: %w", err)
	}

	s.invalidate(ctx)
	log.Info().Int("loaded", result.Loaded).Int("skipped", result.Skipped).Msg("products imported")
	return result, nil
}

// ImportStock replaces all stock positions from a CSV upload. Rows pointing
// at unknown stores or SKUs are dropped with a warning.
func (s *ImportService) ImportStock(ctx context.Context, r io.Reader) (*importer.Result, error) {
	positions, result, err := importer.ParseStock(r)
	if err != nil {
		return nil, err
	}

	storeIDs, skus, err := s.referenceSets(ctx)
	if err != nil {
		return nil, err
	}

	kept := positions[:0]
	for _, p := range positions {
		if _, ok := storeIDs[p.StoreID]; !ok {
			result.Loaded--
			result.SkipReference("store", p.StoreID)
			continue
		}
		if _, ok := skus[p.SKU]; !ok {
			result.Loaded--
			result.SkipReference("sku", p.SKU)
			continue
		}
		kept = append(kept, p)
	}

	if err := s.stock.ReplaceStockPositions(ctx, kept); err != nil {
		return nil, fmt.Errorf("replacing stock positions: %w", err)
	}

	s.invalidate(ctx)
	log.Info().Int("loaded", result.Loaded).Int("skipped", result.Skipped).Msg("stock imported")
	return result, nil
}

// ImportSales appends sale events from a CSV upload. Missing revenue values
// are derived as quantity x retail price when a matching product exists and
// left zero otherwise.
func (s *ImportService) ImportSales(ctx context.Context, r io.Reader) (*importer.Result, error) {
	events, result, err := importer.ParseSales(r)
	if err != nil {
		return nil, err
	}

	storeIDs, _, err := s.referenceSets(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	productBySKU := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productBySKU[p.SKU] = p
	}

	kept := events[:0]
	for _, ev := range events {
		if _, ok := storeIDs[ev.StoreID]; !ok {
			result.Loaded--
			result.SkipReference("store", ev.StoreID)
			continue
		}
		if ev.Revenue.IsZero() {
			if product, ok := productBySKU[ev.SKU]; ok {
				ev.Revenue = product.RetailPrice.Mul(decimal.NewFromInt(int64(ev.Quantity)))
			}
		}
		kept = append(kept, ev)
	}

	if err := s.sales.AppendSales(ctx, kept); err != nil {
		return nil, fmt.Errorf("appending sales: %w", err)
	}

	s.invalidate(ctx)
	log.Info().Int("loaded", result.Loaded).Int("skipped", result.Skipped).Msg("sales imported")
	return result, nil
}

func (s *ImportService) referenceSets(ctx context.Context) (map[string]struct{}, map[string]struct{}, error) {
	stores, err := s.stores.ListStores(ctx, false)
	if err != nil {
		return nil, nil, fmt.Errorf("reading stores: %w", err)
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reading products: %w", err)
	}

	storeIDs := make(map[string]struct{}, len(stores))
	for _, st := range stores {
		storeIDs[st.ID] = struct{}{}
	}
	skus := make(map[string]struct{}, len(products))
	for _, p := range products {
		skus[p.SKU] = struct{}{}
	}
	return storeIDs, skus, nil
}

func (s *ImportService) invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("import: cache invalidation failed")
	}
}

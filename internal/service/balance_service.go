// internal/service/balance_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/strideretail/stock-balancer/internal/balance"
	"github.com/strideretail/stock-balancer/internal/cache"
	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/repository"
)

// BalanceService runs the evaluation pass: it reads the full current dataset,
// classifies every position, and proposes transfers. It never mutates stock.
type BalanceService struct {
	stores    repository.StoreRepository
	products  repository.ProductRepository
	stock     repository.StockRepository
	sales     repository.SalesRepository
	transfers repository.TransferRepository
	cache     cache.EvaluationCache

	now func() time.Time
}

func NewBalanceService(
	stores repository.StoreRepository,
	products repository.ProductRepository,
	stock repository.StockRepository,
	sales repository.SalesRepository,
	transfers repository.TransferRepository,
	cacheImpl cache.EvaluationCache,
) *BalanceService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopEvaluationCache()
	}
	return &BalanceService{
		stores:    stores,
		products:  products,
		stock:     stock,
		sales:     sales,
		transfers: transfers,
		cache:     cacheImpl,
		now:       time.Now,
	}
}

// Evaluate re-reads the full stock and sales sets and recomputes every
// classification from scratch. Configuration errors abort up front; errors on
// a single position are isolated, counted and surfaced as warnings. A dataset
// with zero stock positions yields an empty result, not an error.
func (s *BalanceService) Evaluate(ctx context.Context, settings balance.Settings) (*domain.Evaluation, error) {
	classifier, err := balance.NewClassifier(settings)
	if err != nil {
		return nil, err
	}

	stores, err := s.stores.ListStores(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("reading stores: %w", err)
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	positions, err := s.stock.ListStockPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading stock positions: %w", err)
	}

	eval := &domain.Evaluation{Positions: make([]domain.ClassifiedPosition, 0, len(positions))}
	if len(positions) == 0 {
		log.Info().Msg("evaluate: empty dataset, nothing to classify")
		return eval, nil
	}

	today := s.now()
	since := balance.WindowStart(today, settings.WindowDays)
	events, err := s.sales.ListSalesSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("reading sales: %w", err)
	}
	totals, err := balance.AggregateSales(events, settings.WindowDays, today)
	if err != nil {
		return nil, err
	}

	storeByID := make(map[string]domain.Store, len(stores))
	for _, st := range stores {
		storeByID[st.ID] = st
	}
	productBySKU := make(map[string]domain.Product, len(products))
	for _, p := range products {
		productBySKU[p.SKU] = p
	}

	var skippedRefs, skippedInactive, skippedInvalid int
	for _, pos := range positions {
		store, ok := storeByID[pos.StoreID]
		if !ok {
			skippedRefs++
			log.Warn().Str("store_id", pos.StoreID).Str("sku", pos.SKU).
				Msg("evaluate: stock position references unknown store, skipped")
			continue
		}
		if !store.Active {
			skippedInactive++
			log.Warn().Str("store_id", pos.StoreID).Str("sku", pos.SKU).
				Msg("evaluate: stock position at inactive store, skipped")
			continue
		}
		product, ok := productBySKU[pos.SKU]
		if !ok {
			skippedRefs++
			log.Warn().Str("store_id", pos.StoreID).Str("sku", pos.SKU).
				Msg("evaluate: stock position references unknown sku, skipped")
			continue
		}

		cp, err := classifier.Classify(pos, totals[domain.PositionKey{StoreID: pos.StoreID, SKU: pos.SKU}])
		if err != nil {
			skippedInvalid++
			log.Warn().Err(err).Str("store_id", pos.StoreID).Str("sku", pos.SKU).
				Msg("evaluate: position skipped")
			continue
		}

		cp.StoreName = store.Name
		cp.StoreType = store.Type
		cp.StyleName = product.StyleName
		cp.Category = product.Category
		cp.Size = product.Size
		eval.Positions = append(eval.Positions, cp)
	}

	eval.Summary = balance.Summarize(eval.Positions, settings.WindowDays)
	eval.Summary.SkippedRecords = skippedRefs + skippedInactive + skippedInvalid
	if skippedRefs > 0 {
		eval.Warnings = append(eval.Warnings,
			fmt.Sprintf("%d records skipped due to missing reference data", skippedRefs))
	}
	if skippedInactive > 0 {
		eval.Warnings = append(eval.Warnings,
			fmt.Sprintf("%d records skipped at inactive stores", skippedInactive))
	}
	if skippedInvalid > 0 {
		eval.Warnings = append(eval.Warnings,
			fmt.Sprintf("%d records skipped as invalid positions", skippedInvalid))
	}
	return eval, nil
}

// Summary returns the evaluation summary, served from cache when possible.
func (s *BalanceService) Summary(ctx context.Context, settings balance.Settings) (domain.EvaluationSummary, error) {
	if summary, ok, err := s.cache.GetSummary(ctx, settings); err == nil && ok {
		return summary, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("balance: cache get summary failed")
	}

	eval, err := s.Evaluate(ctx, settings)
	if err != nil {
		return domain.EvaluationSummary{}, err
	}

	if err := s.cache.SetSummary(ctx, settings, eval.Summary); err != nil {
		log.Warn().Err(err).Msg("balance: cache set summary failed")
	}
	return eval.Summary, nil
}

// RecommendTransfers ranks transfer candidates for an already-classified
// position set.
func (s *BalanceService) RecommendTransfers(positions []domain.ClassifiedPosition, settings balance.Settings, topN int) ([]domain.TransferCandidate, error) {
	matcher, err := balance.NewMatcher(settings)
	if err != nil {
		return nil, err
	}
	return matcher.Match(positions, topN)
}

// ConfirmTransfer persists a candidate as a pending transfer recommendation.
// Validity is re-checked before anything is written.
func (s *BalanceService) ConfirmTransfer(ctx context.Context, candidate domain.TransferCandidate) (*domain.TransferRecommendation, error) {
	if candidate.FromStoreID == "" || candidate.ToStoreID == "" || candidate.SKU == "" {
		return nil, errors.New("transfer candidate is missing store or sku identifiers")
	}
	if candidate.FromStoreID == candidate.ToStoreID {
		return nil, fmt.Errorf("transfer candidate from and to stores must differ, both are %s", candidate.FromStoreID)
	}
	if candidate.Quantity <= 0 {
		return nil, fmt.Errorf("transfer candidate quantity must be positive, got %d", candidate.Quantity)
	}

	priority := candidate.Priority
	if priority == "" {
		priority = domain.PriorityTier(candidate.PriorityScore)
	}

	rec := &domain.TransferRecommendation{
		FromStoreID: candidate.FromStoreID,
		ToStoreID:   candidate.ToStoreID,
		SKU:         candidate.SKU,
		Quantity:    candidate.Quantity,
		Priority:    priority,
		Status:      domain.TransferPending,
		Reason:      candidate.Reason,
	}
	if err := s.transfers.CreateTransfer(ctx, rec); err != nil {
		return nil, err
	}

	log.Info().Str("from", rec.FromStoreID).Str("to", rec.ToStoreID).
		Str("sku", rec.SKU).Int("quantity", rec.Quantity).
		Msg("transfer recommendation created")
	return rec, nil
}

// ListTransfers returns persisted recommendations, optionally filtered by
// lifecycle status.
func (s *BalanceService) ListTransfers(ctx context.Context, status string) ([]domain.TransferRecommendation, error) {
	if status != "" {
		parsed, ok := domain.ParseTransferStatus(status)
		if !ok {
			return nil, fmt.Errorf("unknown transfer status %q", status)
		}
		status = parsed
	}
	return s.transfers.ListTransfers(ctx, status)
}

// ResolveTransfer moves a pending recommendation to applied or rejected.
func (s *BalanceService) ResolveTransfer(ctx context.Context, id int64, status string) error {
	parsed, ok := domain.ParseTransferStatus(status)
	if !ok || parsed == domain.TransferPending {
		return fmt.Errorf("transfer status must be %q or %q, got %q",
			domain.TransferApplied, domain.TransferRejected, status)
	}
	return s.transfers.UpdateTransferStatus(ctx, id, parsed)
}

// Stores lists the store reference data, online stores first.
func (s *BalanceService) Stores(ctx context.Context, activeOnly bool) ([]domain.Store, error) {
	return s.stores.ListStores(ctx, activeOnly)
}

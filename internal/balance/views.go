// internal/balance/views.go
package balance

import (
	"sort"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// Read-only views over already-classified data. Pure transformations; no
// status is recomputed here.

// NeedsForStore returns the understocked positions for one store (or all
// stores when storeID is empty), sorted by units sold descending.
func NeedsForStore(positions []domain.ClassifiedPosition, storeID string) []domain.ClassifiedPosition {
	needs := filterPositions(positions, storeID, domain.StatusNeedsStock)
	sort.SliceStable(needs, func(i, j int) bool {
		return needs[i].UnitsSold > needs[j].UnitsSold
	})
	return needs
}

// ExcessForStore returns the overstocked positions for one store (or all
// stores when storeID is empty), sorted by current stock descending.
func ExcessForStore(positions []domain.ClassifiedPosition, storeID string) []domain.ClassifiedPosition {
	excess := filterPositions(positions, storeID, domain.StatusExcessStock)
	sort.SliceStable(excess, func(i, j int) bool {
		return excess[i].CurrentStock > excess[j].CurrentStock
	})
	return excess
}

// TransfersForStore narrows ranked candidates to those touching one store,
// preserving the global ranking. An empty storeID returns all candidates.
func TransfersForStore(candidates []domain.TransferCandidate, storeID string) []domain.TransferCandidate {
	if storeID == "" {
		return candidates
	}
	out := make([]domain.TransferCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.FromStoreID == storeID || c.ToStoreID == storeID {
			out = append(out, c)
		}
	}
	return out
}

// Summarize computes the aggregate counters for a classified position set.
// A fast mover sold more units than the coarse priority threshold; a slow
// mover holds stock with zero recent sales. Average velocity is mean daily
// units sold per position over the window.
func Summarize(positions []domain.ClassifiedPosition, windowDays int) domain.EvaluationSummary {
	summary := domain.EvaluationSummary{TotalPositions: len(positions)}

	stores := make(map[string]struct{})
	skus := make(map[string]struct{})
	for _, p := range positions {
		stores[p.StoreID] = struct{}{}
		skus[p.SKU] = struct{}{}
		summary.TotalStock += p.CurrentStock
		summary.TotalUnitsSold += p.UnitsSold

		switch p.Status {
		case domain.StatusNeedsStock:
			summary.NeedsCount++
		case domain.StatusExcessStock:
			summary.ExcessCount++
		default:
			summary.OKCount++
		}

		if p.UnitsSold > fastMoverUnits {
			summary.FastMovers++
		}
		if p.UnitsSold == 0 && p.CurrentStock > 0 {
			summary.SlowMovers++
		}
	}

	summary.ActiveStores = len(stores)
	summary.DistinctSKUs = len(skus)
	if len(positions) > 0 && windowDays > 0 {
		summary.AvgVelocity = float64(summary.TotalUnitsSold) / float64(windowDays) / float64(len(positions))
	}
	return summary
}

func filterPositions(positions []domain.ClassifiedPosition, storeID string, status domain.Status) []domain.ClassifiedPosition {
	out := make([]domain.ClassifiedPosition, 0, len(positions))
	for _, p := range positions {
		if p.Status != status {
			continue
		}
		if storeID != "" && p.StoreID != storeID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// internal/balance/match.go
package balance

import (
	"fmt"
	"sort"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// fastMoverUnits is the units-sold threshold separating high from medium
// priority under the absolute policy.
const fastMoverUnits = 3

// Matcher pairs understocked positions with overstocked ones sharing the
// same SKU across different stores. It never mutates stock; it only proposes.
type Matcher struct {
	settings Settings
}

// NewMatcher validates the settings and returns a matcher.
func NewMatcher(settings Settings) (*Matcher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{settings: settings}, nil
}

// Match generates the ranked transfer candidates for a classified position
// set, truncated to topN (the configured default when topN < 1). An empty
// needs or excess side yields an empty list, not an error.
func (m *Matcher) Match(positions []domain.ClassifiedPosition, topN int) ([]domain.TransferCandidate, error) {
	if topN < 1 {
		topN = m.settings.TopN
	}

	var needs, excess []domain.ClassifiedPosition
	for _, p := range positions {
		if p.CurrentStock < 0 || p.UnitsSold < 0 {
			return nil, domain.InvalidPositionError(p.StoreID, p.SKU, p.CurrentStock)
		}
		switch p.Status {
		case domain.StatusNeedsStock:
			needs = append(needs, p)
		case domain.StatusExcessStock:
			excess = append(excess, p)
		}
	}

	candidates := make([]domain.TransferCandidate, 0, len(needs))
	for _, n := range needs {
		for _, e := range excess {
			if n.SKU != e.SKU || n.StoreID == e.StoreID {
				continue
			}
			qty := minInt(n.ImbalanceQty, e.ImbalanceQty)
			if qty <= 0 {
				continue
			}

			score := m.priorityScore(n)
			candidates = append(candidates, domain.TransferCandidate{
				FromStoreID:   e.StoreID,
				FromStoreName: e.StoreName,
				ToStoreID:     n.StoreID,
				ToStoreName:   n.StoreName,
				SKU:           n.SKU,
				StyleName:     n.StyleName,
				Size:          n.Size,
				Quantity:      qty,
				FromStock:     e.CurrentStock,
				ToStock:       n.CurrentStock,
				UnitsSold:     n.UnitsSold,
				PriorityScore: score,
				Priority:      domain.PriorityTier(score),
				Reason: fmt.Sprintf("store selling but low stock (sold %d units in %d days)",
					n.UnitsSold, m.settings.WindowDays),
			})
		}
	}

	rankCandidates(candidates)

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// priorityScore weighs the destination's urgency. The velocity policy scores
// on sales velocity with a bonus for breaching the safety floor; the absolute
// policy maps the coarse high/medium buckets onto the same numeric scale.
func (m *Matcher) priorityScore(n domain.ClassifiedPosition) float64 {
	if m.settings.Policy == PolicyVelocity {
		score := n.SalesToStockRatio * 10
		if n.CurrentStock <= m.settings.LowStockThreshold {
			score += 5
		}
		return score
	}
	if n.UnitsSold > fastMoverUnits {
		return 10
	}
	return 5
}

// rankCandidates imposes a deterministic total order: priority score, then
// destination demand, then transfer quantity, with SKU and store ids as the
// final tie-break so identical inputs always produce identical output.
func rankCandidates(candidates []domain.TransferCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		if a.UnitsSold != b.UnitsSold {
			return a.UnitsSold > b.UnitsSold
		}
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.ToStoreID != b.ToStoreID {
			return a.ToStoreID < b.ToStoreID
		}
		return a.FromStoreID < b.FromStoreID
	})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

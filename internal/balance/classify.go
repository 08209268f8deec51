// internal/balance/classify.go
package balance

import (
	"math"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// infiniteRatio stands in for a stock-to-sales ratio with zero sales. Display
// only; every comparison is guarded by the units-sold check first.
const infiniteRatio = 999

// Classifier decides status and imbalance quantity per stock position
type Classifier struct {
	settings Settings
}

// NewClassifier validates the settings and returns a classifier. Bad
// thresholds abort here, before any position is looked at.
func NewClassifier(settings Settings) (*Classifier, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{settings: settings}, nil
}

// Settings returns the validated settings this classifier runs with.
func (c *Classifier) Settings() Settings {
	return c.settings
}

// Classify computes the status and imbalance quantity for one position given
// its aggregated recent sales. Pure per-position computation.
func (c *Classifier) Classify(pos domain.StockPosition, totals domain.SalesTotals) (domain.ClassifiedPosition, error) {
	if pos.Quantity < 0 {
		return domain.ClassifiedPosition{}, domain.InvalidPositionError(pos.StoreID, pos.SKU, pos.Quantity)
	}
	if totals.UnitsSold < 0 {
		return domain.ClassifiedPosition{}, domain.InvalidPositionError(pos.StoreID, pos.SKU, totals.UnitsSold)
	}

	cp := domain.ClassifiedPosition{
		StoreID:      pos.StoreID,
		SKU:          pos.SKU,
		CurrentStock: pos.Quantity,
		UnitsSold:    totals.UnitsSold,
		DaysSold:     totals.DaysSold,
	}

	switch c.settings.Policy {
	case PolicyVelocity:
		c.classifyVelocity(&cp)
	default:
		c.classifyAbsolute(&cp)
	}

	return cp, nil
}

// classifyAbsolute applies the absolute-threshold rules: a selling position
// at or below the low threshold needs stock; a dead position at or above the
// excess threshold carries excess.
func (c *Classifier) classifyAbsolute(cp *domain.ClassifiedPosition) {
	low := c.settings.LowStockThreshold
	excess := c.settings.ExcessStockThreshold

	switch {
	case cp.UnitsSold > 0 && cp.CurrentStock <= low:
		cp.Status = domain.StatusNeedsStock
		cp.ImbalanceQty = low - cp.CurrentStock
	case cp.UnitsSold == 0 && cp.CurrentStock >= excess:
		cp.Status = domain.StatusExcessStock
		cp.ImbalanceQty = cp.CurrentStock - excess
	default:
		cp.Status = domain.StatusOK
	}
}

// classifyVelocity applies the ratio rules on top of the absolute floors.
// Ratios are only computed when their denominator is known non-zero.
func (c *Classifier) classifyVelocity(cp *domain.ClassifiedPosition) {
	low := c.settings.LowStockThreshold
	excess := c.settings.ExcessStockThreshold
	needRatio := c.settings.NeedRatioThreshold
	excessRatio := c.settings.ExcessRatioThreshold

	if cp.CurrentStock > 0 {
		cp.SalesToStockRatio = float64(cp.UnitsSold) / float64(cp.CurrentStock)
	}
	if cp.UnitsSold > 0 {
		cp.StockToSalesRatio = float64(cp.CurrentStock) / float64(cp.UnitsSold)
	} else {
		cp.StockToSalesRatio = infiniteRatio
	}

	switch {
	case cp.UnitsSold == 0:
		cp.VelocityCategory = domain.VelocitySlow
	case cp.SalesToStockRatio > 1/needRatio:
		cp.VelocityCategory = domain.VelocityFast
	default:
		cp.VelocityCategory = domain.VelocitySteady
	}

	needs := cp.UnitsSold > 0 &&
		(cp.CurrentStock <= low || cp.SalesToStockRatio > 1/needRatio)
	hasExcess := cp.CurrentStock >= excess &&
		(cp.UnitsSold == 0 || cp.StockToSalesRatio > excessRatio)

	switch {
	case needs:
		cp.Status = domain.StatusNeedsStock
		// Raise stock to cover both the safety floor and the velocity-implied
		// target, clamped so an already-covered position contributes zero.
		floorDeficit := low - cp.CurrentStock
		velocityDeficit := int(math.Round(float64(cp.UnitsSold)*needRatio)) - cp.CurrentStock
		cp.ImbalanceQty = clampNonNegative(maxInt(floorDeficit, velocityDeficit))
	case hasExcess:
		cp.Status = domain.StatusExcessStock
		target := int(math.Round(float64(cp.UnitsSold) * excessRatio))
		cp.ImbalanceQty = clampNonNegative(cp.CurrentStock - target)
	default:
		cp.Status = domain.StatusOK
	}
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

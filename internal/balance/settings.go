// internal/balance/settings.go
package balance

import (
	"fmt"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// Policy selects the classification rule set
type Policy string

const (
	// PolicyAbsolute classifies on absolute stock thresholds
	PolicyAbsolute Policy = "absolute"
	// PolicyVelocity additionally weighs sales velocity against stock on hand
	PolicyVelocity Policy = "velocity"
)

// ParsePolicy validates a policy label.
func ParsePolicy(label string) (Policy, bool) {
	switch Policy(label) {
	case PolicyAbsolute:
		return PolicyAbsolute, true
	case PolicyVelocity:
		return PolicyVelocity, true
	}
	return "", false
}

// Settings holds the tunable parameters for one evaluation pass
type Settings struct {
	Policy     Policy `json:"policy"`
	WindowDays int    `json:"window_days"`

	LowStockThreshold    int `json:"low_stock_threshold"`
	ExcessStockThreshold int `json:"excess_stock_threshold"`

	// Ratio thresholds, used by the velocity policy only.
	// NeedRatioThreshold K means one sale per K units of stock triggers need;
	// ExcessRatioThreshold K means K units of stock per sale triggers excess.
	NeedRatioThreshold   float64 `json:"need_ratio_threshold"`
	ExcessRatioThreshold float64 `json:"excess_ratio_threshold"`

	TopN int `json:"top_n"`
}

// Validate rejects settings that cannot produce a consistent classification.
// The threshold ordering check keeps the NEEDS and EXCESS branches disjoint.
func (s Settings) Validate() error {
	if s.WindowDays < 1 {
		return domain.ErrInvalidWindow
	}
	if s.LowStockThreshold < 1 {
		return fmt.Errorf("%w: low stock threshold must be positive, got %d",
			domain.ErrInvalidThresholds, s.LowStockThreshold)
	}
	if s.ExcessStockThreshold <= s.LowStockThreshold {
		return fmt.Errorf("%w: excess threshold %d must exceed low threshold %d",
			domain.ErrInvalidThresholds, s.ExcessStockThreshold, s.LowStockThreshold)
	}
	if s.Policy == PolicyVelocity {
		if s.NeedRatioThreshold <= 0 {
			return fmt.Errorf("%w: need ratio threshold must be positive, got %g",
				domain.ErrInvalidThresholds, s.NeedRatioThreshold)
		}
		if s.ExcessRatioThreshold <= 0 {
			return fmt.Errorf("%w: excess ratio threshold must be positive, got %g",
				domain.ErrInvalidThresholds, s.ExcessRatioThreshold)
		}
	}
	if s.TopN < 1 {
		return fmt.Errorf("%w: top N must be positive, got %d", domain.ErrInvalidThresholds, s.TopN)
	}
	return nil
}

package domain

import "strings"

// Status classifies one stock position
type Status string

const (
	StatusNeedsStock  Status = "NEEDS_STOCK"
	StatusExcessStock Status = "EXCESS_STOCK"
	StatusOK          Status = "OK"
)

// Transfer recommendation lifecycle states
const (
	TransferPending  = "pending"
	TransferApplied  = "applied"
	TransferRejected = "rejected"
)

// Priority tiers for transfer candidates
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Velocity categories under the ratio policy
const (
	VelocityFast   = "fast"
	VelocitySlow   = "slow"
	VelocitySteady = "steady"
)

// Numeric score boundaries for the priority tiers
const (
	highPriorityScore   = 8.0
	mediumPriorityScore = 4.0
)

// PriorityTier maps a numeric priority score onto a display tier.
func PriorityTier(score float64) string {
	switch {
	case score >= highPriorityScore:
		return PriorityHigh
	case score >= mediumPriorityScore:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ParseTransferStatus validates a transfer status label (case-insensitive).
func ParseTransferStatus(label string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case TransferPending:
		return TransferPending, true
	case TransferApplied:
		return TransferApplied, true
	case TransferRejected:
		return TransferRejected, true
	}
	return "", false
}

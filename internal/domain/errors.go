package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWindow is returned when the sales lookback window is not at least one day.
	ErrInvalidWindow = errors.New("lookback window must be at least 1 day")

	// ErrInvalidThresholds is returned when the configured thresholds cannot
	// produce a consistent classification (excess <= low, or a ratio <= 0).
	ErrInvalidThresholds = errors.New("invalid threshold configuration")

	// ErrInvalidPosition is returned when a position carries a negative stock
	// or sales quantity.
	ErrInvalidPosition = errors.New("invalid stock position")

	// ErrMissingReference is returned when a record references a store or SKU
	// absent from the reference data. Callers skip and count these rather
	// than aborting.
	ErrMissingReference = errors.New("missing reference data")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
)

// InvalidPositionError wraps ErrInvalidPosition with the offending position.
func InvalidPositionError(storeID, sku string, quantity int) error {
	return fmt.Errorf("%w: store %s sku %s quantity %d", ErrInvalidPosition, storeID, sku, quantity)
}

// MissingReferenceError wraps ErrMissingReference with the offending reference.
func MissingReferenceError(kind, id string) error {
	return fmt.Errorf("%w: unknown %s %q", ErrMissingReference, kind, id)
}

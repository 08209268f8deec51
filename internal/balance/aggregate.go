// internal/balance/aggregate.go
package balance

import (
	"time"

	"github.com/strideretail/stock-balancer/internal/domain"
)

// AggregateSales folds raw sale events into per-(store, SKU) totals over the
// trailing window [today - windowDays, today], dates compared at day
// granularity. Positions with no qualifying sales are absent from the map;
// callers treat missing as zero.
func AggregateSales(events []domain.SaleEvent, windowDays int, today time.Time) (map[domain.PositionKey]domain.SalesTotals, error) {
	if windowDays < 1 {
		return nil, domain.ErrInvalidWindow
	}

	end := truncateDay(today)
	start := WindowStart(today, windowDays)

	totals := make(map[domain.PositionKey]domain.SalesTotals)
	seenDates := make(map[domain.PositionKey]map[string]struct{})

	for _, ev := range events {
		day := truncateDay(ev.SaleDate)
		if day.Before(start) || day.After(end) {
			continue
		}

		key := domain.PositionKey{StoreID: ev.StoreID, SKU: ev.SKU}
		t := totals[key]
		t.UnitsSold += ev.Quantity

		dates := seenDates[key]
		if dates == nil {
			dates = make(map[string]struct{})
			seenDates[key] = dates
		}
		dateKey := day.Format("2006-01-02")
		if _, ok := dates[dateKey]; !ok {
			dates[dateKey] = struct{}{}
			t.DaysSold++
		}

		totals[key] = t
	}

	return totals, nil
}

// WindowStart returns the first day of the inclusive lookback window ending
// today, truncated to day granularity. Callers reading sales from storage
// must filter with this value, not with the raw wall-clock time, or sales
// dated exactly windowDays ago are cut off after midnight.
func WindowStart(today time.Time, windowDays int) time.Time {
	return truncateDay(today).AddDate(0, 0, -windowDays)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

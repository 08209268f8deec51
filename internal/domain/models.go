// internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a store location
type Store struct {
	ID       string `json:"store_id" db:"store_id"`
	Name     string `json:"store_name" db:"store_name"`
	Type     string `json:"store_type" db:"store_type"`
	Location string `json:"location" db:"location"`
	Active   bool   `json:"is_active" db:"is_active"`
}

// Product represents a single SKU (style + size + colour)
type Product struct {
	SKU         string          `json:"sku" db:"sku"`
	StyleCode   string          `json:"style_code" db:"style_code"`
	StyleName   string          `json:"style_name" db:"style_name"`
	Category    string          `json:"category" db:"category"`
	Size        float64         `json:"size" db:"size"`
	Gender      string          `json:"gender" db:"gender"`
	CostPrice   decimal.Decimal `json:"cost_price" db:"cost_price"`
	RetailPrice decimal.Decimal `json:"retail_price" db:"retail_price"`
}

// StockPosition is the current on-hand quantity for one (store, SKU) pair.
// The latest value replaces prior ones; no history is retained.
type StockPosition struct {
	StoreID     string    `json:"store_id" db:"store_id"`
	SKU         string    `json:"sku" db:"sku"`
	Quantity    int       `json:"quantity" db:"quantity"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// SaleEvent is a single append-only sales record
type SaleEvent struct {
	ID       int64           `json:"sale_id" db:"sale_id"`
	StoreID  string          `json:"store_id" db:"store_id"`
	SKU      string          `json:"sku" db:"sku"`
	SaleDate time.Time       `json:"sale_date" db:"sale_date"`
	Quantity int             `json:"quantity" db:"quantity"`
	Revenue  decimal.Decimal `json:"revenue" db:"revenue"`
}

// PositionKey identifies one (store, SKU) position
type PositionKey struct {
	StoreID string
	SKU     string
}

// SalesTotals holds the aggregated recent sales for one position
type SalesTotals struct {
	UnitsSold int `json:"units_sold"`
	DaysSold  int `json:"days_sold"`
}

// ClassifiedPosition extends a stock position with recent sales and the
// computed balance status. Derived per evaluation, never persisted.
type ClassifiedPosition struct {
	StoreID      string  `json:"store_id"`
	StoreName    string  `json:"store_name"`
	StoreType    string  `json:"store_type"`
	SKU          string  `json:"sku"`
	StyleName    string  `json:"style_name"`
	Category     string  `json:"category"`
	Size         float64 `json:"size"`
	CurrentStock int     `json:"current_stock"`
	UnitsSold    int     `json:"units_sold"`
	DaysSold     int     `json:"days_sold"`
	Status       Status  `json:"status"`
	ImbalanceQty int     `json:"imbalance_qty"`

	// Velocity metrics, populated under the ratio policy only
	SalesToStockRatio float64 `json:"sales_to_stock_ratio,omitempty"`
	StockToSalesRatio float64 `json:"stock_to_sales_ratio,omitempty"`
	VelocityCategory  string  `json:"velocity_category,omitempty"`
}

// TransferCandidate is a proposed, unconfirmed inter-store stock movement
type TransferCandidate struct {
	FromStoreID   string  `json:"from_store_id"`
	FromStoreName string  `json:"from_store_name"`
	ToStoreID     string  `json:"to_store_id"`
	ToStoreName   string  `json:"to_store_name"`
	SKU           string  `json:"sku"`
	StyleName     string  `json:"style_name"`
	Size          float64 `json:"size"`
	Quantity      int     `json:"quantity"`
	FromStock     int     `json:"from_stock"`
	ToStock       int     `json:"to_stock"`
	UnitsSold     int     `json:"units_sold"`
	PriorityScore float64 `json:"priority_score"`
	Priority      string  `json:"priority"`
	Reason        string  `json:"reason"`
}

// TransferRecommendation is a confirmed, persisted transfer proposal
type TransferRecommendation struct {
	ID                 int64     `json:"id" db:"id"`
	RecommendationDate time.Time `json:"recommendation_date" db:"recommendation_date"`
	FromStoreID        string    `json:"from_store_id" db:"from_store_id"`
	ToStoreID          string    `json:"to_store_id" db:"to_store_id"`
	SKU                string    `json:"sku" db:"sku"`
	Quantity           int       `json:"quantity" db:"quantity"`
	Priority           string    `json:"priority" db:"priority"`
	Status             string    `json:"status" db:"status"`
	Reason             string    `json:"reason" db:"reason"`
}

// EvaluationSummary holds the aggregate counters for one evaluation pass
type EvaluationSummary struct {
	TotalPositions int     `json:"total_positions"`
	NeedsCount     int     `json:"needs_count"`
	ExcessCount    int     `json:"excess_count"`
	OKCount        int     `json:"ok_count"`
	ActiveStores   int     `json:"active_stores"`
	DistinctSKUs   int     `json:"distinct_skus"`
	TotalUnitsSold int     `json:"total_units_sold"`
	FastMovers     int     `json:"fast_movers"`
	SlowMovers     int     `json:"slow_movers"`
	AvgVelocity    float64 `json:"avg_velocity"`
	TotalStock     int     `json:"total_stock"`
	SkippedRecords int     `json:"skipped_records"`
}

// Evaluation is the result of one full classification pass
type Evaluation struct {
	Positions []ClassifiedPosition `json:"positions"`
	Summary   EvaluationSummary    `json:"summary"`
	Warnings  []string             `json:"warnings,omitempty"`
}

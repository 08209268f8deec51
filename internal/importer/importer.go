// internal/importer/importer.go
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/strideretail/stock-balancer/internal/domain"
)

const dateLayout = "2006-01-02"

// Required upload columns per dataset. Extra columns are ignored.
var (
	productColumns = []string{"sku", "style_code", "style_name"}
	stockColumns   = []string{"store_id", "sku", "quantity"}
	salesColumns   = []string{"store_id", "sku", "sale_date", "quantity"}
)

// Result summarizes one import pass
type Result struct {
	Loaded   int      `json:"loaded"`
	Skipped  int      `json:"skipped"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) skip(line int, format string, args ...interface{}) {
	r.Skipped++
	r.Warnings = append(r.Warnings, fmt.Sprintf("row %d: %s", line, fmt.Sprintf(format, args...)))
}

// SkipReference counts a parsed row dropped later for referencing a store or
// SKU absent from the reference tables.
func (r *Result) SkipReference(kind, id string) {
	r.Skipped++
	r.Warnings = append(r.Warnings, domain.MissingReferenceError(kind, id).Error())
}

// header maps normalized column names to their index
type header map[string]int

func readHeader(rec []string, required []string) (header, error) {
	h := make(header, len(rec))
	for i, name := range rec {
		h[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, fmt.Errorf("csv must contain columns %v, missing %q", required, col)
		}
	}
	return h, nil
}

func (h header) get(rec []string, col string) string {
	idx, ok := h[col]
	if !ok || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// ParseProducts reads a product catalog CSV. A malformed header fails the
// whole import; malformed rows are skipped and counted.
func ParseProducts(r io.Reader) ([]domain.Product, *Result, error) {
	reader := newCSVReader(r)

	head, err := readRequiredHeader(reader, productColumns)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{}
	var products []domain.Product
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(line, "unreadable row: %v", err)
			continue
		}

		p := domain.Product{
			SKU:       head.get(rec, "sku"),
			StyleCode: head.get(rec, "style_code"),
			StyleName: head.get(rec, "style_name"),
			Category:  head.get(rec, "category"),
			Gender:    head.get(rec, "gender"),
		}
		if p.SKU == "" || p.StyleCode == "" || p.StyleName == "" {
			result.skip(line, "missing sku, style_code or style_name")
			continue
		}

		if raw := head.get(rec, "size"); raw != "" {
			size, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				result.skip(line, "invalid size %q", raw)
				continue
			}
			p.Size = size
		}
		if p.CostPrice, err = parsePrice(head.get(rec, "cost_price")); err != nil {
			result.skip(line, "invalid cost_price: %v", err)
			continue
		}
		if p.RetailPrice, err = parsePrice(head.get(rec, "retail_price")); err != nil {
			result.skip(line, "invalid retail_price: %v", err)
			continue
		}

		products = append(products, p)
		result.Loaded++
	}
	return products, result, nil
}

// ParseStock reads a stock levels CSV. Negative quantities violate the stock
// invariant and are skipped.
func ParseStock(r io.Reader) ([]domain.StockPosition, *Result, error) {
	reader := newCSVReader(r)

	head, err := readRequiredHeader(reader, stockColumns)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{}
	var positions []domain.StockPosition
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(line, "unreadable row: %v", err)
			continue
		}

		storeID := head.get(rec, "store_id")
		sku := head.get(rec, "sku")
		if storeID == "" || sku == "" {
			result.skip(line, "missing store_id or sku")
			continue
		}

		qty, err := strconv.Atoi(head.get(rec, "quantity"))
		if err != nil {
			result.skip(line, "invalid quantity %q", head.get(rec, "quantity"))
			continue
		}
		if qty < 0 {
			result.skip(line, "%v", domain.InvalidPositionError(storeID, sku, qty))
			continue
		}

		positions = append(positions, domain.StockPosition{StoreID: storeID, SKU: sku, Quantity: qty})
		result.Loaded++
	}
	return positions, result, nil
}

// ParseSales reads a sales CSV. Revenue is optional; absent values are left
// zero for the caller to backfill from the product catalog.
func ParseSales(r io.Reader) ([]domain.SaleEvent, *Result, error) {
	reader := newCSVReader(r)

	head, err := readRequiredHeader(reader, salesColumns)
	if err != nil {
		return nil, nil, err
	}

	result := &Result{}
	var events []domain.SaleEvent
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.skip(line, "unreadable row: %v", err)
			continue
		}

		storeID := head.get(rec, "store_id")
		sku := head.get(rec, "sku")
		if storeID == "" || sku == "" {
			result.skip(line, "missing store_id or sku")
			continue
		}

		saleDate, err := time.Parse(dateLayout, head.get(rec, "sale_date"))
		if err != nil {
			result.skip(line, "invalid sale_date %q", head.get(rec, "sale_date"))
			continue
		}

		qty, err := strconv.Atoi(head.get(rec, "quantity"))
		if err != nil {
			result.skip(line, "invalid quantity %q", head.get(rec, "quantity"))
			continue
		}
		if qty < 0 {
			result.skip(line, "%v", domain.InvalidPositionError(storeID, sku, qty))
			continue
		}

		ev := domain.SaleEvent{StoreID: storeID, SKU: sku, SaleDate: saleDate, Quantity: qty}
		if raw := head.get(rec, "revenue"); raw != "" {
			revenue, err := decimal.NewFromString(raw)
			if err != nil {
				result.skip(line, "invalid revenue %q", raw)
				continue
			}
			ev.Revenue = revenue
		}

		events = append(events, ev)
		result.Loaded++
	}
	return events, result, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

func readRequiredHeader(reader *csv.Reader, required []string) (header, error) {
	rec, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read csv header: %w", err)
	}
	return readHeader(rec, required)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

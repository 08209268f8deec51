// internal/api/handlers/balance_handler.go
package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/strideretail/stock-balancer/internal/balance"
	"github.com/strideretail/stock-balancer/internal/config"
	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/service"
)

type BalanceHandler struct {
	service  *service.BalanceService
	defaults config.BalancerConfig
}

func NewBalanceHandler(service *service.BalanceService, defaults config.BalancerConfig) *BalanceHandler {
	return &BalanceHandler{service: service, defaults: defaults}
}

// parseSettings builds the evaluation settings from query parameters, falling
// back to the configured defaults for anything not supplied.
func (h *BalanceHandler) parseSettings(c *gin.Context) (balance.Settings, error) {
	settings := balance.Settings{
		WindowDays:           h.defaults.WindowDays,
		LowStockThreshold:    h.defaults.LowStockThreshold,
		ExcessStockThreshold: h.defaults.ExcessStockThreshold,
		NeedRatioThreshold:   h.defaults.NeedRatioThreshold,
		ExcessRatioThreshold: h.defaults.ExcessRatioThreshold,
		TopN:                 h.defaults.TopN,
	}

	policyLabel := c.DefaultQuery("policy", h.defaults.DefaultPolicy)
	policy, ok := balance.ParsePolicy(policyLabel)
	if !ok {
		return settings, fmt.Errorf("unknown policy %q", policyLabel)
	}
	settings.Policy = policy

	intParams := map[string]*int{
		"window_days": &settings.WindowDays,
		"low":         &settings.LowStockThreshold,
		"excess":      &settings.ExcessStockThreshold,
		"top_n":       &settings.TopN,
	}
	for param, target := range intParams {
		if raw := c.Query(param); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return settings, fmt.Errorf("invalid %s %q", param, raw)
			}
			*target = v
		}
	}

	floatParams := map[string]*float64{
		"need_ratio":   &settings.NeedRatioThreshold,
		"excess_ratio": &settings.ExcessRatioThreshold,
	}
	for param, target := range floatParams {
		if raw := c.Query(param); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return settings, fmt.Errorf("invalid %s %q", param, raw)
			}
			*target = v
		}
	}

	return settings, settings.Validate()
}

func (h *BalanceHandler) evaluate(c *gin.Context) (*domain.Evaluation, balance.Settings, bool) {
	settings, err := h.parseSettings(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return nil, settings, false
	}

	eval, err := h.service.Evaluate(c.Request.Context(), settings)
	if err != nil {
		errorResponse(c, evaluationStatus(err), err.Error())
		return nil, settings, false
	}
	return eval, settings, true
}

// GetEvaluation runs a full classification pass and returns every position.
func (h *BalanceHandler) GetEvaluation(c *gin.Context) {
	eval, _, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, eval)
}

// GetNeeds returns understocked positions, optionally for one store.
func (h *BalanceHandler) GetNeeds(c *gin.Context) {
	eval, _, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"positions": balance.NeedsForStore(eval.Positions, c.Query("store_id")),
		"warnings":  eval.Warnings,
	})
}

// GetExcess returns overstocked positions, optionally for one store.
func (h *BalanceHandler) GetExcess(c *gin.Context) {
	eval, _, ok := h.evaluate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"positions": balance.ExcessForStore(eval.Positions, c.Query("store_id")),
		"warnings":  eval.Warnings,
	})
}

// GetTransfers returns ranked transfer candidates, optionally narrowed to
// those touching one store.
func (h *BalanceHandler) GetTransfers(c *gin.Context) {
	eval, settings, ok := h.evaluate(c)
	if !ok {
		return
	}

	candidates, err := h.service.RecommendTransfers(eval.Positions, settings, settings.TopN)
	if err != nil {
		errorResponse(c, evaluationStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transfers": balance.TransfersForStore(candidates, c.Query("store_id")),
		"warnings":  eval.Warnings,
	})
}

// GetSummary returns the aggregate counters for the current dataset.
func (h *BalanceHandler) GetSummary(c *gin.Context) {
	settings, err := h.parseSettings(c)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), settings)
	if err != nil {
		errorResponse(c, evaluationStatus(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ExportNeeds streams the understocked positions as a CSV report.
func (h *BalanceHandler) ExportNeeds(c *gin.Context) {
	eval, _, ok := h.evaluate(c)
	if !ok {
		return
	}
	needs := balance.NeedsForStore(eval.Positions, c.Query("store_id"))

	setCSVHeaders(c, fmt.Sprintf("stock_needs_%s.csv", time.Now().Format("20060102")))
	w := csv.NewWriter(c.Writer)
	writeRow(w, []string{"store_id", "store_name", "sku", "style_name", "size", "current_stock", "units_sold", "days_sold", "imbalance_qty"})
	for _, p := range needs {
		writeRow(w, []string{
			p.StoreID, p.StoreName, p.SKU, p.StyleName,
			strconv.FormatFloat(p.Size, 'f', -1, 64),
			strconv.Itoa(p.CurrentStock), strconv.Itoa(p.UnitsSold),
			strconv.Itoa(p.DaysSold), strconv.Itoa(p.ImbalanceQty),
		})
	}
	w.Flush()
}

// ExportTransfers streams the ranked transfer candidates as CSV.
func (h *BalanceHandler) ExportTransfers(c *gin.Context) {
	eval, settings, ok := h.evaluate(c)
	if !ok {
		return
	}

	candidates, err := h.service.RecommendTransfers(eval.Positions, settings, settings.TopN)
	if err != nil {
		errorResponse(c, evaluationStatus(err), err.Error())
		return
	}

	setCSVHeaders(c, fmt.Sprintf("transfer_recommendations_%s.csv", time.Now().Format("20060102")))
	w := csv.NewWriter(c.Writer)
	writeRow(w, []string{"from_store", "to_store", "sku", "style_name", "quantity", "priority", "reason"})
	for _, t := range candidates {
		writeRow(w, []string{
			t.FromStoreID, t.ToStoreID, t.SKU, t.StyleName,
			strconv.Itoa(t.Quantity), t.Priority, t.Reason,
		})
	}
	w.Flush()
}

func setCSVHeaders(c *gin.Context, filename string) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func writeRow(w *csv.Writer, row []string) {
	if err := w.Write(row); err != nil {
		log.Error().Err(err).Msg("csv write failed")
	}
}

// evaluationStatus maps engine errors onto HTTP status codes. Configuration
// problems are the caller's fault; anything else is a server error.
func evaluationStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidThresholds),
		errors.Is(err, domain.ErrInvalidPosition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

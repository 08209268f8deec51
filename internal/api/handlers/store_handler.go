// internal/api/handlers/store_handler.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/service"
)

type StoreHandler struct {
	service *service.BalanceService
}

func NewStoreHandler(service *service.BalanceService) *StoreHandler {
	return &StoreHandler{service: service}
}

// List returns the store reference data, online stores first.
func (h *StoreHandler) List(c *gin.Context) {
	activeOnly := true
	if raw := c.Query("active_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, "invalid active_only value")
			return
		}
		activeOnly = parsed
	}

	stores, err := h.service.Stores(c.Request.Context(), activeOnly)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	if stores == nil {
		stores = make([]domain.Store, 0)
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	log.Error().Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
}

// internal/api/handlers/transfer_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/strideretail/stock-balancer/internal/domain"
	"github.com/strideretail/stock-balancer/internal/service"
)

type TransferHandler struct {
	service *service.BalanceService
}

func NewTransferHandler(service *service.BalanceService) *TransferHandler {
	return &TransferHandler{service: service}
}

// Confirm persists a transfer candidate as a pending recommendation.
func (h *TransferHandler) Confirm(c *gin.Context) {
	var candidate domain.TransferCandidate
	if err := c.ShouldBindJSON(&candidate); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid transfer candidate payload: "+err.Error())
		return
	}

	rec, err := h.service.ConfirmTransfer(c.Request.Context(), candidate)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// List returns persisted recommendations, optionally filtered by status.
func (h *TransferHandler) List(c *gin.Context) {
	recs, err := h.service.ListTransfers(c.Request.Context(), c.Query("status"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if recs == nil {
		recs = make([]domain.TransferRecommendation, 0)
	}
	c.JSON(http.StatusOK, gin.H{"transfers": recs})
}

type resolveTransferRequest struct {
	Status string `json:"status" binding:"required"`
}

// Resolve moves a pending recommendation to applied or rejected.
func (h *TransferHandler) Resolve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid transfer id")
		return
	}

	var req resolveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "status is required")
		return
	}

	if err := h.service.ResolveTransfer(c.Request.Context(), id, req.Status); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		errorResponse(c, status, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

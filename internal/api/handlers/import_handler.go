// internal/api/handlers/import_handler.go
package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/strideretail/stock-balancer/internal/importer"
	"github.com/strideretail/stock-balancer/internal/service"
)

type ImportHandler struct {
	service *service.ImportService
}

func NewImportHandler(service *service.ImportService) *ImportHandler {
	return &ImportHandler{service: service}
}

func (h *ImportHandler) ImportProducts(c *gin.Context) {
	h.runImport(c, h.service.ImportProducts)
}

func (h *ImportHandler) ImportStock(c *gin.Context) {
	h.runImport(c, h.service.ImportStock)
}

func (h *ImportHandler) ImportSales(c *gin.Context) {
	h.runImport(c, h.service.ImportSales)
}

// GetTemplate serves the sample CSV for one dataset kind.
func (h *ImportHandler) GetTemplate(c *gin.Context) {
	filename, payload, ok := importer.Template(c.Param("kind"))
	if !ok {
		errorResponse(c, http.StatusNotFound, "unknown template kind, expected products, stock or sales")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", []byte(payload))
}

func (h *ImportHandler) runImport(c *gin.Context, load func(context.Context, io.Reader) (*importer.Result, error)) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "could not open uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	result, err := load(c.Request.Context(), file)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

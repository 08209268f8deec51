// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/strideretail/stock-balancer/internal/api/handlers"
	"github.com/strideretail/stock-balancer/internal/api/middleware"
	"github.com/strideretail/stock-balancer/internal/config"
	"github.com/strideretail/stock-balancer/internal/service"
)

type Services struct {
	BalanceService *service.BalanceService
	ImportService  *service.ImportService
}

func NewRouter(services *Services, defaults config.BalancerConfig, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	apiGroup := router.Group("/api/v1")

	if services != nil && services.BalanceService != nil {
		balanceHandler := handlers.NewBalanceHandler(services.BalanceService, defaults)
		balanceGroup := apiGroup.Group("/balance")
		{
			balanceGroup.GET("/evaluate", balanceHandler.GetEvaluation)
			balanceGroup.GET("/needs", balanceHandler.GetNeeds)
			balanceGroup.GET("/excess", balanceHandler.GetExcess)
			balanceGroup.GET("/transfers", balanceHandler.GetTransfers)
			balanceGroup.GET("/summary", balanceHandler.GetSummary)
			balanceGroup.GET("/export/needs", balanceHandler.ExportNeeds)
			balanceGroup.GET("/export/transfers", balanceHandler.ExportTransfers)
		}

		transferHandler := handlers.NewTransferHandler(services.BalanceService)
		transferGroup := apiGroup.Group("/transfers")
		{
			transferGroup.POST("", transferHandler.Confirm)
			transferGroup.GET("", transferHandler.List)
			transferGroup.PATCH("/:id", transferHandler.Resolve)
		}

		storeHandler := handlers.NewStoreHandler(services.BalanceService)
		apiGroup.GET("/stores", storeHandler.List)
	}

	if services != nil && services.ImportService != nil {
		importHandler := handlers.NewImportHandler(services.ImportService)
		importGroup := apiGroup.Group("/imports")
		{
			importGroup.POST("/products", importHandler.ImportProducts)
			importGroup.POST("/stock", importHandler.ImportStock)
			importGroup.POST("/sales", importHandler.ImportSales)
		}
		apiGroup.GET("/templates/:kind", importHandler.GetTemplate)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}

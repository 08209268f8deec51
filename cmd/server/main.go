// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/strideretail/stock-balancer/internal/api"
	"github.com/strideretail/stock-balancer/internal/cache"
	"github.com/strideretail/stock-balancer/internal/config"
	"github.com/strideretail/stock-balancer/internal/repository/postgres"
	"github.com/strideretail/stock-balancer/internal/service"
	"github.com/strideretail/stock-balancer/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	storeRepo := postgres.NewStoreRepository(db)
	productRepo := postgres.NewProductRepository(db)
	stockRepo := postgres.NewStockRepository(db)
	salesRepo := postgres.NewSalesRepository(db)
	transferRepo := postgres.NewTransferRepository(db)

	// Initialize cache
	evalCache, err := cache.NewEvaluationCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Cache unavailable, continuing without it")
		evalCache = cache.NewNoopEvaluationCache()
	}

	// Initialize services
	balanceService := service.NewBalanceService(storeRepo, productRepo, stockRepo, salesRepo, transferRepo, evalCache)
	importService := service.NewImportService(storeRepo, productRepo, stockRepo, salesRepo, evalCache)

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		BalanceService: balanceService,
		ImportService:  importService,
	}, cfg.Balancer, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

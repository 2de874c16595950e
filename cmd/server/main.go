package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/adega/backend/config"
	httpDelivery "github.com/adega/backend/internal/delivery/http"
	"github.com/adega/backend/internal/infrastructure/cart"
	"github.com/adega/backend/internal/infrastructure/catalogsource"
	logpkg "github.com/adega/backend/internal/logger"
	"github.com/adega/backend/internal/usecase"
)

func main() {
	// Load configuration (.env first, then config file and ADEGA_* variables)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logpkg.New(cfg.Server.Environment, cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting Adega backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	// Load and normalize the catalog once; any failure here is fatal
	source := catalogsource.New(cfg.Catalog.Path, cfg.Catalog.URL, cfg.Catalog.Timeout, logger)
	if client, ok := source.(*catalogsource.Client); ok && cfg.Server.Environment == "development" {
		client.SetDebug(true)
	}

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Catalog.Timeout)
	records, err := source.FetchRecords(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Fatal("Failed to load catalog",
			zap.String("path", cfg.Catalog.Path),
			zap.String("url", cfg.Catalog.URL),
			zap.Error(err),
		)
	}

	catalog := usecase.NewCatalogBuilder(logger).Build(records)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(
		catalog,
		usecase.SearchConfig{
			DefaultLimit:       cfg.Search.DefaultLimit,
			EnableDebugLogging: cfg.Search.Debug,
		},
		logger,
	)

	cartStore := cart.NewMemoryStore(cfg.Cart.TTL)
	cartService := usecase.NewCartService(cartStore, catalog, logger)

	logger.Info("Services ready",
		zap.Int("default_limit", cfg.Search.DefaultLimit),
		zap.Duration("cart_ttl", cfg.Cart.TTL),
		zap.Int("rate_limit_per_ip", cfg.RateLimit.PerIP),
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, cartService, catalog, cfg.Search.MaxLimit)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

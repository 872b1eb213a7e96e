// Package main is the entry point for the pharmacore API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmacore/internal/config"
	"pharmacore/internal/domain/catalogs/counterparty"
	"pharmacore/internal/domain/catalogs/product"
	"pharmacore/internal/domain/documents/trade"
	"pharmacore/internal/domain/inventory"
	v1 "pharmacore/internal/infrastructure/http/v1"
	"pharmacore/internal/infrastructure/storage/postgres"
	"pharmacore/internal/infrastructure/storage/postgres/catalog_repo"
	"pharmacore/internal/infrastructure/storage/postgres/document_repo"
	"pharmacore/internal/infrastructure/storage/postgres/inventory_repo"
	"pharmacore/pkg/logger"
	"pharmacore/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting pharmacore server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	statsCtx, stopStats := context.WithCancel(ctx)
	defer stopStats()
	go pool.RunStatsLogger(statsCtx, time.Minute)

	txManager := postgres.NewTxManager(pool)

	// --- Shared services ---
	numeratorService := numerator.New(pool.Unwrap())

	auditService, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	productRepo := catalog_repo.NewProductRepo(txManager)
	counterpartyRepo := catalog_repo.NewCounterpartyRepo(txManager)
	tradeRepo := document_repo.NewTradeRepo(txManager)
	stockRepo := inventory_repo.NewStockRepo(txManager)

	// --- Domain services ---
	stockEngine := inventory.NewEngine(stockRepo)

	productService := product.NewService(productRepo, txManager, numeratorService)
	counterpartyService := counterparty.NewService(counterpartyRepo, txManager, numeratorService)
	tradeService := trade.NewService(tradeRepo, stockEngine, numeratorService, txManager, auditService)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:           pool,
		Logger:         log,
		Products:       productService,
		Counterparties: counterpartyService,
		Trades:         tradeService,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

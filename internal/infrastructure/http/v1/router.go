// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"pharmacore/internal/domain/catalogs/counterparty"
	"pharmacore/internal/domain/catalogs/product"
	"pharmacore/internal/domain/documents/trade"
	"pharmacore/internal/infrastructure/http/v1/handlers"
	"pharmacore/internal/infrastructure/http/v1/middleware"
	"pharmacore/internal/infrastructure/storage/postgres"
	"pharmacore/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Pool   *postgres.Pool
	Logger *logger.Logger

	Products       *product.Service
	Counterparties *counterparty.Service
	Trades         *trade.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.UserContext())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		registerCatalogRoutes(apiV1, cfg)
		registerDocumentRoutes(apiV1, cfg)
	}

	return router
}

// registerCatalogRoutes registers reference-data endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	productHandler := handlers.NewProductHandler(base, cfg.Products)
	products := rg.Group("/products")
	{
		products.GET("", productHandler.List)
		products.GET("/low-stock", productHandler.LowStock)
		products.GET("/barcode/:barcode", productHandler.ByBarcode)
		products.GET("/:id", productHandler.Get)
		products.POST("", productHandler.Create)
		products.PUT("/:id", productHandler.Update)
		products.DELETE("/:id", productHandler.Delete)
		products.POST("/:id/deletion-mark", productHandler.SetDeletionMark)
	}

	counterpartyHandler := handlers.NewCounterpartyHandler(base, cfg.Counterparties)
	counterparties := rg.Group("/counterparties")
	{
		counterparties.GET("", counterpartyHandler.List)
		counterparties.GET("/:id", counterpartyHandler.Get)
		counterparties.POST("", counterpartyHandler.Create)
		counterparties.PUT("/:id", counterpartyHandler.Update)
		counterparties.DELETE("/:id", counterpartyHandler.Delete)
		counterparties.POST("/:id/deletion-mark", counterpartyHandler.SetDeletionMark)
	}
}

// registerDocumentRoutes registers the four trade document groups.
// One handler serves them all; the kind comes from the route.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	base := handlers.NewBaseHandler()

	groups := map[string]trade.Kind{
		"/sale-invoices":     trade.KindSaleInvoice,
		"/sale-returns":      trade.KindSaleReturn,
		"/purchase-invoices": trade.KindPurchaseInvoice,
		"/purchase-returns":  trade.KindPurchaseReturn,
	}

	for path, kind := range groups {
		handler := handlers.NewTradeHandler(base, cfg.Trades, kind)
		docs := rg.Group(path)
		{
			docs.GET("", handler.List)
			docs.GET("/:id", handler.Get)
			docs.POST("", handler.Create)
			docs.PUT("/:id", handler.Update)
			docs.DELETE("/:id", handler.Delete)
		}
	}
}

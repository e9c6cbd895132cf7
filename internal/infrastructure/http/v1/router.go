// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"stocklot/internal/domain/batches"
	"stocklot/internal/domain/cashflow"
	"stocklot/internal/domain/catalogs/company"
	"stocklot/internal/domain/catalogs/item"
	"stocklot/internal/domain/catalogs/location"
	"stocklot/internal/infrastructure/http/v1/handlers"
	"stocklot/internal/infrastructure/http/v1/middleware"
	"stocklot/internal/infrastructure/numerator"
	"stocklot/internal/infrastructure/storage/postgres"
	"stocklot/internal/infrastructure/storage/postgres/batch_repo"
	"stocklot/internal/infrastructure/storage/postgres/catalog_repo"
	"stocklot/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs catalog transactions at read committed
	TxManager *postgres.TxManager

	// BatchTxManager runs ledger transactions at serializable isolation,
	// so the consolidation probe cannot race with concurrent inserts
	BatchTxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Audit persists the batch audit trail (optional)
	Audit *postgres.AuditService
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

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Repositories share the catalog TxManager for querier resolution; a
	// transaction opened by either manager is picked up from context.
	companyRepo := catalog_repo.NewCompanyRepo(cfg.TxManager)
	locationRepo := catalog_repo.NewLocationRepo(cfg.TxManager)
	itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
	batchRepo := batch_repo.NewStockBatchRepo(cfg.TxManager)

	cash := cashflow.NewCoordinator(companyRepo)
	numbers := numerator.NewFromTxManager(cfg.TxManager)

	companyService := company.NewService(companyRepo, cfg.TxManager)
	locationService := location.NewService(locationRepo, companyRepo, cfg.TxManager)
	itemService := item.NewService(itemRepo, companyRepo, locationRepo, cash, cfg.TxManager)

	var auditPort batches.AuditPort
	if cfg.Audit != nil {
		auditPort = cfg.Audit
	}
	batchService := batches.NewService(
		batchRepo, itemRepo, locationRepo,
		cash, numbers, auditPort,
		cfg.BatchTxManager,
	)

	baseHandler := handlers.NewBaseHandler()
	companyHandler := handlers.NewCompanyHandler(baseHandler, companyService)
	locationHandler := handlers.NewLocationHandler(baseHandler, locationService)
	itemHandler := handlers.NewItemHandler(baseHandler, itemService)
	batchHandler := handlers.NewBatchHandler(baseHandler, batchService, cfg.Audit)

	// API v1
	api := router.Group("/api/v1")
	{
		companies := api.Group("/companies")
		RegisterCatalogRoutes(companies, companyHandler)
		companies.POST("/:id/deposit", companyHandler.Deposit)
		companies.POST("/:id/withdraw", companyHandler.Withdraw)
		companies.GET("/:id/locations", locationHandler.ListByCompany)

		locations := api.Group("/locations")
		RegisterCatalogRoutes(locations, locationHandler)

		items := api.Group("/items")
		items.GET("", itemHandler.List)
		items.GET("/:id", itemHandler.Get)
		items.POST("", itemHandler.Create)
		items.PATCH("/:id", itemHandler.Update)
		items.DELETE("/:id", itemHandler.Delete)
		items.GET("/:id/batches", batchHandler.ListByItem)
		items.GET("/:id/consistency", batchHandler.Consistency)

		batchGroup := api.Group("/batches")
		batchGroup.POST("", batchHandler.Create)
		batchGroup.GET("/:id", batchHandler.Get)
		batchGroup.PATCH("/:id", batchHandler.Update)
		batchGroup.DELETE("/:id", batchHandler.Delete)
		batchGroup.POST("/:id/transfer", batchHandler.Transfer)
		batchGroup.GET("/:id/history", batchHandler.History)
	}

	return router
}

// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/id"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/location"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/catalogs/product"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/orders"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/reports"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/sales"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/snapshot"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/domain/stock"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/handlers"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/http/v1/middleware"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/metrics"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/catalog_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/ledger_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/sales_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/infrastructure/storage/postgres/snapshot_repo"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/pkg/logger"
)

// RouterConfig holds router dependencies and settings.
type RouterConfig struct {
	Pool    *pgxpool.Pool
	Logger  *logger.Logger
	Metrics *metrics.Metrics

	// JWTSecret signs identity tokens.
	JWTSecret string

	// StoreLocationID is the fulfillment source for customer orders.
	StoreLocationID id.ID

	// SaleRetries bounds transparent retries on concurrency conflicts.
	SaleRetries int

	Version string
}

// Services bundles the wired domain services so binaries can reuse
// them outside the HTTP surface.
type Services struct {
	Products  *product.Service
	Locations *location.Service
	Stock     *stock.Service
	Snapshots *snapshot.Service
	Sales     *sales.Service
	Orders    *orders.Service
	Reports   *reports.Service
}

// BuildServices wires repositories and domain services on a shared
// transaction manager.
func BuildServices(cfg RouterConfig) (*Services, error) {
	txManager := postgres.NewTxManagerFromRawPool(cfg.Pool)

	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		return nil, err
	}

	productRepo := catalog_repo.NewProductRepo(txManager)
	locationRepo := catalog_repo.NewLocationRepo(txManager)
	stockRepo := ledger_repo.NewStockRepo(txManager, audit)
	snapshotRepo := snapshot_repo.NewSnapshotRepo(txManager, audit)
	saleRepo := sales_repo.NewSaleRepo(txManager)
	orderRepo := sales_repo.NewOrderRepo(txManager)

	notifier := postgres.NewOrderNotifier(postgres.NewOutboxPublisher(txManager))

	productService := product.NewService(productRepo)
	locationService := location.NewService(locationRepo)
	snapshotService := snapshot.NewService(snapshotRepo, stockRepo, txManager)
	stockService := stock.NewService(stockRepo, snapshotService, txManager)
	salesService := sales.NewService(
		saleRepo, productService, locationRepo, stockRepo, snapshotService,
		txManager, cfg.SaleRetries,
	)
	orderService := orders.NewService(
		orderRepo, productService, salesService, txManager, notifier,
		cfg.StoreLocationID, cfg.SaleRetries,
	)
	reportService := reports.NewService(saleRepo, snapshotRepo)

	return &Services{
		Products:  productService,
		Locations: locationService,
		Stock:     stockService,
		Snapshots: snapshotService,
		Sales:     salesService,
		Orders:    orderService,
		Reports:   reportService,
	}, nil
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig, svc *Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters).
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health and metrics endpoints, no auth required.
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	base := handlers.NewBaseHandler()
	productHandler := handlers.NewProductHandler(base, svc.Products)
	locationHandler := handlers.NewLocationHandler(base, svc.Locations)
	stockHandler := handlers.NewStockHandler(base, svc.Stock)
	snapshotHandler := handlers.NewSnapshotHandler(base, svc.Snapshots)
	saleHandler := handlers.NewSaleHandler(base, svc.Sales, cfg.Metrics)
	orderHandler := handlers.NewOrderHandler(base, svc.Orders, cfg.Metrics)
	reportHandler := handlers.NewReportHandler(base, svc.Reports)

	validator := middleware.NewJWTValidator(cfg.JWTSecret)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(validator))
	{
		products := api.Group("/products")
		{
			products.POST("", productHandler.Create)
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.PATCH("/:id", productHandler.Update)
			products.DELETE("/:id", productHandler.Delete)
		}

		locations := api.Group("/locations")
		{
			locations.POST("", locationHandler.Create)
			locations.GET("", locationHandler.List)
			locations.GET("/:id", locationHandler.Get)
			locations.PATCH("/:id", locationHandler.Rename)
			locations.GET("/:id/stock", stockHandler.ListByLocation)
			locations.GET("/:id/snapshots", snapshotHandler.Range)
			locations.PUT("/:id/snapshots", snapshotHandler.BulkOverride)
		}

		stockGroup := api.Group("/stock")
		{
			stockGroup.GET("", stockHandler.Get)
			stockGroup.POST("/adjustments", stockHandler.Adjust)
			stockGroup.GET("/adjustments", stockHandler.AdjustmentHistory)
		}

		api.GET("/snapshots", snapshotHandler.Get)

		salesGroup := api.Group("/sales")
		{
			salesGroup.POST("", saleHandler.Record)
			salesGroup.GET("", saleHandler.List)
			salesGroup.GET("/:id", saleHandler.Get)
		}

		ordersGroup := api.Group("/orders")
		{
			ordersGroup.POST("", orderHandler.Create)
			ordersGroup.GET("", orderHandler.List)
			ordersGroup.GET("/:id", orderHandler.Get)
			ordersGroup.POST("/:id/approve", orderHandler.Approve)
			ordersGroup.POST("/:id/reject", orderHandler.Reject)
			ordersGroup.POST("/:id/fulfill", orderHandler.Fulfill)
		}

		reportsGroup := api.Group("/reports")
		{
			reportsGroup.GET("/receipts/:saleId", reportHandler.Receipt)
			reportsGroup.GET("/sales", reportHandler.Sales)
			reportsGroup.GET("/snapshots", reportHandler.Snapshots)
		}
	}

	return router
}

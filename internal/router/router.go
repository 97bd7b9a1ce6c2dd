package router

import (
	"fmt"
	"time"

	"github.com/Akilucky-rogue/biz-boundless/internal/config"
	"github.com/Akilucky-rogue/biz-boundless/internal/handler"
	"github.com/Akilucky-rogue/biz-boundless/internal/infra"
	"github.com/Akilucky-rogue/biz-boundless/internal/middleware"
	"github.com/Akilucky-rogue/biz-boundless/internal/model"
	"github.com/Akilucky-rogue/biz-boundless/internal/repository"
	"github.com/Akilucky-rogue/biz-boundless/internal/service"
	"github.com/Akilucky-rogue/biz-boundless/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	numbers, err := infra.NewInvoiceNumbers(cfg.SnowflakeNode)
	if err != nil {
		return nil, fmt.Errorf("invoice numbers: %w", err)
	}
	renderer := infra.NewInvoicePDF(cfg.PDFStoragePath, cfg.StoreName)
	cache := repository.NewRedisCache(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	movementRepo := repository.NewMovementRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, categoryRepo, priceHistoryRepo, batchRepo, cache)
	categorySvc := service.NewCategoryService(categoryRepo)
	vendorSvc := service.NewVendorService(vendorRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	inventorySvc := service.NewInventoryService(batchRepo, productRepo, vendorRepo, movementRepo, cache,
		time.Duration(cfg.StockCacheTTLSeconds)*time.Second)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, productRepo, customerRepo, inventorySvc, numbers, dispatcher, renderer,
		service.InvoiceOptions{
			StrictPricing:  cfg.StrictInvoicePricing,
			DecrementStock: cfg.DecrementStockOnSale,
		})
	reportSvc := service.NewReportService(invoiceRepo, customerRepo, inventorySvc)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	vendorsH := handler.NewVendorsHandler(vendorSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/price/:barcode", productsH.LookupPrice)

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	staff := middleware.RequireRole(model.RoleAdmin, model.RoleEmployee)
	admin := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		products := v1.Group("/products")
		{
			products.GET("", staff, productsH.List)
			products.GET("/:id", staff, productsH.Get)
			products.GET("/:id/price-history", staff, productsH.PriceHistory)
			products.POST("", admin, productsH.Create)
			products.PUT("/:id", admin, productsH.Update)
			products.DELETE("/:id", admin, productsH.Deactivate)
			products.PATCH("/:id/reactivate", admin, productsH.Reactivate)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", staff, categoriesH.List)
			categories.POST("", admin, categoriesH.Create)
			categories.PUT("/:id", admin, categoriesH.Update)
			categories.DELETE("/:id", admin, categoriesH.Deactivate)
		}

		vendors := v1.Group("/vendors")
		{
			vendors.GET("", staff, vendorsH.List)
			vendors.GET("/:id", staff, vendorsH.Get)
			vendors.POST("", admin, vendorsH.Create)
			vendors.PUT("/:id", admin, vendorsH.Update)
			vendors.DELETE("/:id", admin, vendorsH.Deactivate)
		}

		customers := v1.Group("/customers")
		{
			customers.GET("", staff, customersH.List)
			customers.GET("/:id", staff, customersH.Get)
			customers.POST("", staff, customersH.Create)
			customers.PUT("/:id", staff, customersH.Update)
			customers.DELETE("/:id", admin, customersH.Deactivate)
		}

		inv := v1.Group("/inventory", staff)
		{
			inv.GET("/batches", inventoryH.ListBatches)
			inv.POST("/batches", inventoryH.AddBatch)
			inv.POST("/purchases", inventoryH.RecordPurchase)
			inv.GET("/stock", inventoryH.StockSummary)
			inv.GET("/alerts", inventoryH.LowStock)
			inv.GET("/movements", inventoryH.Movements)
		}

		invoices := v1.Group("/invoices")
		{
			invoices.POST("", staff, invoicesH.Create)
			invoices.GET("", staff, invoicesH.List)
			invoices.GET("/:id", staff, invoicesH.Get)
			invoices.GET("/:id/pdf", staff, invoicesH.DownloadPDF)
			invoices.POST("/:id/payments", staff, invoicesH.RecordPayment)
			invoices.PATCH("/:id/status", admin, invoicesH.UpdateStatus)
		}

		reports := v1.Group("/reports", staff)
		{
			reports.GET("/dashboard", reportsH.Dashboard)
			reports.GET("/sales", reportsH.Sales)
		}

		users := v1.Group("/users", admin)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	// Swagger UI, only outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}

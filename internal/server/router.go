package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inventory-ledger/internal/platform/metrics"
	"github.com/inventory-ledger/internal/server/handler"
	"github.com/inventory-ledger/internal/server/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	itemHandler *handler.ItemHandler,
	stockHandler *handler.StockHandler,
	ledgerHandler *handler.LedgerHandler,
	reportHandler *handler.ReportHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())
	r.Use(metrics.GinMiddleware())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Item directory
		items := v1.Group("/items")
		{
			items.POST("", itemHandler.Create)
			items.GET("", itemHandler.List)
			items.GET("/low-stock", itemHandler.ListLowStock)
			items.GET("/categories", itemHandler.Categories)
			items.GET("/:id", itemHandler.GetByID)
			items.PUT("/:id", itemHandler.Update)
			items.DELETE("/:id", itemHandler.Delete)
			items.GET("/:id/ledger", ledgerHandler.ItemHistory)
		}

		// Recording operations
		sales := v1.Group("/sales")
		{
			sales.POST("", stockHandler.RecordSale)
			sales.GET("", stockHandler.ListSales)
			sales.GET("/:id", stockHandler.GetSaleByID)
		}

		purchases := v1.Group("/purchases")
		{
			purchases.POST("", stockHandler.RecordPurchase)
			purchases.GET("", stockHandler.ListPurchases)
			purchases.GET("/:id", stockHandler.GetPurchaseByID)
		}

		v1.POST("/adjustments", stockHandler.RecordAdjustment)

		// Committed transaction ledger
		ledger := v1.Group("/ledger")
		{
			ledger.GET("", ledgerHandler.List)
			ledger.GET("/summary", ledgerHandler.Summary)
			ledger.GET("/daily-sales", ledgerHandler.DailySales)
		}

		// Workbook downloads
		reports := v1.Group("/reports")
		{
			reports.GET("/inventory", reportHandler.Inventory)
			reports.GET("/sales", reportHandler.Sales)
			reports.GET("/purchases", reportHandler.Purchases)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

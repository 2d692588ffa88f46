package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/inventory-ledger/internal/reports"
	"github.com/inventory-ledger/internal/server/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler streams xlsx report downloads
type ReportHandler struct {
	itemService  service.ItemService
	stockService service.StockService
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, itemService service.ItemService, stockService service.StockService) *ReportHandler {
	return &ReportHandler{
		itemService:  itemService,
		stockService: stockService,
		logger:       logger,
	}
}

// Inventory downloads the current item directory as a workbook
func (h *ReportHandler) Inventory(c *gin.Context) {
	items, err := h.itemService.ListItems(c.Request.Context(), "")
	if err != nil {
		h.logger.Error("Failed to list items for report", "error", err)
		RespondInternalError(c)
		return
	}

	f, err := reports.BuildInventoryReport(items)
	if err != nil {
		h.logger.Error("Failed to build inventory report", "error", err)
		RespondInternalError(c)
		return
	}

	h.sendWorkbook(c, f, fmt.Sprintf("inventory-%s.xlsx", time.Now().Format("2006-01-02")))
}

// Sales downloads sales within the requested time range as a workbook
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	sales, err := h.stockService.ListSales(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list sales for report", "error", err)
		RespondInternalError(c)
		return
	}

	f, err := reports.BuildSalesReport(sales, from, to)
	if err != nil {
		h.logger.Error("Failed to build sales report", "error", err)
		RespondInternalError(c)
		return
	}

	h.sendWorkbook(c, f, fmt.Sprintf("sales-%s-%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02")))
}

// Purchases downloads purchases within the requested time range as a workbook
func (h *ReportHandler) Purchases(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	purchases, err := h.stockService.ListPurchases(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list purchases for report", "error", err)
		RespondInternalError(c)
		return
	}

	f, err := reports.BuildPurchasesReport(purchases, from, to)
	if err != nil {
		h.logger.Error("Failed to build purchases report", "error", err)
		RespondInternalError(c)
		return
	}

	h.sendWorkbook(c, f, fmt.Sprintf("purchases-%s-%s.xlsx", from.Format("2006-01-02"), to.Format("2006-01-02")))
}

// sendWorkbook writes the workbook to the response as a download
func (h *ReportHandler) sendWorkbook(c *gin.Context, f *excelize.File, filename string) {
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("Failed to write report", "filename", filename, "error", err)
	}
}

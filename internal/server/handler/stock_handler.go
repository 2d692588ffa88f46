package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/domain/sale"
	"github.com/inventory-ledger/internal/server/service"
)

// StockHandler handles HTTP requests for the recording operations:
// sales, purchases, and manual adjustments
type StockHandler struct {
	stockService service.StockService
	logger       *slog.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(logger *slog.Logger, stockService service.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		logger:       logger,
	}
}

// RecordSale records a multi-line sale, deducting stock atomically
func (h *StockHandler) RecordSale(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := service.RecordSaleInput{
		CustomerName:  req.CustomerName,
		PaymentMethod: req.PaymentMethod,
		Reference:     req.Reference,
		Notes:         req.Notes,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			RespondBadRequest(c, "Invalid item ID: "+line.ItemID)
			return
		}
		input.Lines = append(input.Lines, service.SaleLineInput{
			ItemID:    itemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	recorded, err := h.stockService.RecordSale(c.Request.Context(), input)
	if err != nil {
		h.respondRecordError(c, "sale", err)
		return
	}

	RespondCreated(c, mapSaleToResponse(recorded))
}

// GetSaleByID retrieves a sale with its lines, returning 404 if not found
func (h *StockHandler) GetSaleByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid sale ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid sale ID")
		return
	}

	recorded, err := h.stockService.GetSaleByID(c.Request.Context(), id)
	if err != nil {
		var notFoundErr sale.ErrSaleNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Sale not found")
			return
		}
		h.logger.Error("Failed to get sale", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapSaleToResponse(recorded))
}

// ListSales returns sales within the requested time range
func (h *StockHandler) ListSales(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	sales, err := h.stockService.ListSales(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list sales", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]SaleResponse, 0, len(sales))
	for _, recorded := range sales {
		responses = append(responses, mapSaleToResponse(recorded))
	}

	RespondOK(c, responses)
}

// RecordPurchase records a multi-line purchase, receiving stock atomically
func (h *StockHandler) RecordPurchase(c *gin.Context) {
	var req RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := service.RecordPurchaseInput{
		SupplierName: req.SupplierName,
		Reference:    req.Reference,
		Notes:        req.Notes,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}
	for _, line := range req.Lines {
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			RespondBadRequest(c, "Invalid item ID: "+line.ItemID)
			return
		}
		input.Lines = append(input.Lines, service.PurchaseLineInput{
			ItemID:    itemID,
			Quantity:  line.Quantity,
			CostPrice: line.CostPrice,
		})
	}

	recorded, err := h.stockService.RecordPurchase(c.Request.Context(), input)
	if err != nil {
		h.respondRecordError(c, "purchase", err)
		return
	}

	RespondCreated(c, mapPurchaseToResponse(recorded))
}

// GetPurchaseByID retrieves a purchase with its lines, returning 404 if not found
func (h *StockHandler) GetPurchaseByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid purchase ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid purchase ID")
		return
	}

	recorded, err := h.stockService.GetPurchaseByID(c.Request.Context(), id)
	if err != nil {
		var notFoundErr purchase.ErrPurchaseNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Purchase not found")
			return
		}
		h.logger.Error("Failed to get purchase", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapPurchaseToResponse(recorded))
}

// ListPurchases returns purchases within the requested time range
func (h *StockHandler) ListPurchases(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	purchases, err := h.stockService.ListPurchases(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to list purchases", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]PurchaseResponse, 0, len(purchases))
	for _, recorded := range purchases {
		responses = append(responses, mapPurchaseToResponse(recorded))
	}

	RespondOK(c, responses)
}

// RecordAdjustment records a signed manual stock correction for one item
func (h *StockHandler) RecordAdjustment(c *gin.Context) {
	var req RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	input := service.RecordAdjustmentInput{
		ItemID:        itemID,
		QuantityDelta: req.QuantityDelta,
		Reference:     req.Reference,
		Notes:         req.Notes,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}

	txn, err := h.stockService.RecordAdjustment(c.Request.Context(), input)
	if err != nil {
		h.respondRecordError(c, "adjustment", err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(txn))
}

// respondRecordError maps engine rejections onto HTTP statuses. Stock
// conflicts are 409 so clients can retry after restocking or reloading;
// malformed input stays 400.
func (h *StockHandler) respondRecordError(c *gin.Context, operation string, err error) {
	var (
		insufficientErr item.ErrInsufficientStock
		negativeErr     item.ErrNegativeInventory
		notFoundErr     item.ErrItemNotFound
		concurrentErr   item.ErrConcurrentModification
	)
	switch {
	case errors.As(err, &insufficientErr):
		h.logger.Warn("Sale rejected for insufficient stock",
			"item_id", insufficientErr.ItemID.String(),
			"requested", insufficientErr.Requested,
			"available", insufficientErr.Available,
		)
		RespondConflict(c, insufficientErr.Error())
	case errors.As(err, &negativeErr):
		h.logger.Warn("Adjustment rejected for negative inventory",
			"item_id", negativeErr.ItemID.String(),
			"current", negativeErr.Current,
			"delta", negativeErr.Delta,
		)
		RespondConflict(c, negativeErr.Error())
	case errors.As(err, &notFoundErr):
		RespondNotFound(c, "Item not found: "+notFoundErr.ItemID.String())
	case errors.As(err, &concurrentErr):
		RespondConflict(c, "Item was modified concurrently, retry the operation")
	case errors.Is(err, sale.ErrNoLines),
		errors.Is(err, sale.ErrInvalidQuantity),
		errors.Is(err, sale.ErrInvalidPrice),
		errors.Is(err, purchase.ErrNoLines),
		errors.Is(err, purchase.ErrInvalidQuantity),
		errors.Is(err, purchase.ErrInvalidPrice),
		errors.Is(err, item.ErrZeroAdjustment):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Failed to record "+operation, "error", err)
		RespondInternalError(c)
	}
}

// mapSaleToResponse maps a sale aggregate to its response DTO
func mapSaleToResponse(s *sale.Sale) SaleResponse {
	lines := make([]SaleLineResponse, 0, len(s.Lines))
	for _, line := range s.Lines {
		lines = append(lines, SaleLineResponse{
			ItemID:    line.ItemID.String(),
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}

	return SaleResponse{
		ID:            s.ID.String(),
		CustomerName:  s.CustomerName,
		PaymentMethod: s.PaymentMethod,
		Reference:     s.Reference,
		Notes:         s.Notes,
		OccurredAt:    s.OccurredAt.Format(time.RFC3339),
		TotalAmount:   s.TotalAmount,
		Lines:         lines,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
}

// mapPurchaseToResponse maps a purchase aggregate to its response DTO
func mapPurchaseToResponse(p *purchase.Purchase) PurchaseResponse {
	lines := make([]PurchaseLineResponse, 0, len(p.Lines))
	for _, line := range p.Lines {
		lines = append(lines, PurchaseLineResponse{
			ItemID:    line.ItemID.String(),
			ItemName:  line.ItemName,
			Quantity:  line.Quantity,
			CostPrice: line.CostPrice,
			LineTotal: line.LineTotal,
		})
	}

	return PurchaseResponse{
		ID:           p.ID.String(),
		SupplierName: p.SupplierName,
		Reference:    p.Reference,
		Notes:        p.Notes,
		OccurredAt:   p.OccurredAt.Format(time.RFC3339),
		TotalAmount:  p.TotalAmount,
		Lines:        lines,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

// mapTransactionToResponse maps a ledger transaction to its response DTO
func mapTransactionToResponse(txn *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID.String(),
		Kind:          string(txn.Kind),
		ItemID:        txn.ItemID.String(),
		ItemName:      txn.ItemName,
		QuantityDelta: txn.QuantityDelta,
		UnitPrice:     txn.UnitPrice,
		TotalAmount:   txn.TotalAmount,
		Reference:     txn.Reference,
		Notes:         txn.Notes,
		OccurredAt:    txn.OccurredAt.Format(time.RFC3339),
		RecordedAt:    txn.RecordedAt.Format(time.RFC3339),
	}
}

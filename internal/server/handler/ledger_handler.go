package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/server/service"
)

// LedgerHandler handles HTTP requests for reading the committed
// transaction ledger
type LedgerHandler struct {
	ledgerService service.LedgerService
	itemService   service.ItemService
	logger        *slog.Logger
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(logger *slog.Logger, ledgerService service.LedgerService, itemService service.ItemService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		itemService:   itemService,
		logger:        logger,
	}
}

// List returns paginated ledger transactions within a time range,
// optionally filtered by the kind query parameter
func (h *LedgerHandler) List(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	var kind shared.TransactionKind
	if raw := c.Query("kind"); raw != "" {
		parsed, err := shared.ParseTransactionKind(raw)
		if err != nil {
			RespondBadRequest(c, "Invalid kind, expected SALE, PURCHASE, or ADJUSTMENT")
			return
		}
		kind = parsed
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	transactions, total, err := h.ledgerService.ListTransactions(c.Request.Context(), from, to, kind, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list ledger transactions", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// ItemHistory returns paginated ledger transactions for one item,
// newest first
func (h *LedgerHandler) ItemHistory(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	if _, err := h.itemService.GetItemByID(c.Request.Context(), id); err != nil {
		var notFoundErr item.ErrItemNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Item not found")
			return
		}
		h.logger.Error("Failed to get item", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	transactions, total, err := h.ledgerService.ItemHistory(c.Request.Context(), id, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to get item history", "item_id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, txn := range transactions {
		responses = append(responses, mapTransactionToResponse(txn))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// Summary partitions a time range's transactions by kind
func (h *LedgerHandler) Summary(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	summary, err := h.ledgerService.Summary(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to summarize ledger", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}

// DailySales groups a time range's sales by calendar date
func (h *LedgerHandler) DailySales(c *gin.Context) {
	from, to, ok := parseTimeRange(c)
	if !ok {
		return
	}

	days, err := h.ledgerService.DailySales(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("Failed to compute daily sales", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, days)
}

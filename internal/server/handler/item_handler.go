package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/server/service"
)

// ItemHandler handles HTTP requests for item directory operations
type ItemHandler struct {
	itemService service.ItemService
	logger      *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(logger *slog.Logger, itemService service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// Create handles creation of a new item, validating the request and
// checking for duplicate SKUs
func (h *ItemHandler) Create(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itm, err := h.itemService.CreateItem(c.Request.Context(), req.Name, req.Description, req.Category, req.SKU,
		req.UnitPrice, req.CostPrice, req.Quantity, req.ReorderLevel)
	if err != nil {
		var duplicateSKUErr item.ErrDuplicateSKU
		if errors.As(err, &duplicateSKUErr) {
			h.logger.Warn("Attempt to create item with duplicate SKU", "sku", duplicateSKUErr.SKU)
			RespondConflict(c, "Item with this SKU already exists")
			return
		}
		h.logger.Error("Failed to create item", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapItemToResponse(itm))
}

// GetByID retrieves an item by its ID, returning 404 if not found
func (h *ItemHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	itm, err := h.itemService.GetItemByID(c.Request.Context(), id)
	if err != nil {
		var notFoundErr item.ErrItemNotFound
		if errors.As(err, &notFoundErr) {
			RespondNotFound(c, "Item not found")
			return
		}
		h.logger.Error("Failed to get item", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapItemToResponse(itm))
}

// List returns all items, optionally filtered by the search query parameter
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.itemService.ListItems(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Error("Failed to list items", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, itm := range items {
		responses = append(responses, mapItemToResponse(itm))
	}

	RespondOK(c, responses)
}

// Update replaces an item's directory fields. Stock quantity cannot be
// changed here; the recording endpoints own it.
func (h *ItemHandler) Update(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	itm, err := h.itemService.UpdateItem(c.Request.Context(), id, req.Name, req.Description, req.Category, req.SKU,
		req.UnitPrice, req.CostPrice, req.ReorderLevel)
	if err != nil {
		var (
			notFoundErr     item.ErrItemNotFound
			duplicateSKUErr item.ErrDuplicateSKU
			concurrentErr   item.ErrConcurrentModification
		)
		switch {
		case errors.As(err, &notFoundErr):
			RespondNotFound(c, "Item not found")
		case errors.As(err, &duplicateSKUErr):
			RespondConflict(c, "Item with this SKU already exists")
		case errors.As(err, &concurrentErr):
			RespondConflict(c, "Item was modified concurrently, retry the update")
		default:
			h.logger.Error("Failed to update item", "id", idParam, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapItemToResponse(itm))
}

// Delete removes an item that has no ledger history
func (h *ItemHandler) Delete(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid item ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid item ID")
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), id); err != nil {
		var (
			notFoundErr item.ErrItemNotFound
			hasTxErr    item.ErrItemHasTransactions
		)
		switch {
		case errors.As(err, &notFoundErr):
			RespondNotFound(c, "Item not found")
		case errors.As(err, &hasTxErr):
			h.logger.Warn("Attempt to delete item with ledger history",
				"item_id", hasTxErr.ItemID.String(),
				"transactions", hasTxErr.Transactions,
			)
			RespondConflict(c, "Item has ledger transactions and cannot be deleted")
		default:
			h.logger.Error("Failed to delete item", "id", idParam, "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondNoContent(c)
}

// ListLowStock returns items at or below their reorder level
func (h *ItemHandler) ListLowStock(c *gin.Context) {
	items, err := h.itemService.ListLowStock(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list low stock items", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ItemResponse, 0, len(items))
	for _, itm := range items {
		responses = append(responses, mapItemToResponse(itm))
	}

	RespondOK(c, responses)
}

// Categories aggregates item counts and stock totals per category
func (h *ItemHandler) Categories(c *gin.Context) {
	summary, err := h.itemService.CategorySummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to summarize categories", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, summary)
}

// mapItemToResponse maps an item entity to an item response DTO
func mapItemToResponse(itm *item.Item) ItemResponse {
	return ItemResponse{
		ID:           itm.ID.String(),
		Name:         itm.Name,
		Description:  itm.Description,
		Category:     itm.Category,
		SKU:          itm.SKU,
		UnitPrice:    itm.UnitPrice,
		CostPrice:    itm.CostPrice,
		Quantity:     itm.Quantity,
		ReorderLevel: itm.ReorderLevel,
		LowStock:     itm.IsLowStock(),
		Version:      itm.Version,
		CreatedAt:    itm.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    itm.UpdatedAt.Format(time.RFC3339),
	}
}

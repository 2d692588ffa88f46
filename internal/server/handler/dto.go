package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// CreateItemRequest represents a request to create a new item
type CreateItemRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	SKU          string `json:"sku" binding:"required"`
	UnitPrice    int64  `json:"unit_price" binding:"min=0"`
	CostPrice    int64  `json:"cost_price" binding:"min=0"`
	Quantity     int64  `json:"quantity" binding:"min=0"`
	ReorderLevel int64  `json:"reorder_level" binding:"min=0"`
}

// UpdateItemRequest represents a request to update an item's directory
// fields. Quantity is deliberately absent: stock only moves through the
// recording endpoints.
type UpdateItemRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	SKU          string `json:"sku" binding:"required"`
	UnitPrice    int64  `json:"unit_price" binding:"min=0"`
	CostPrice    int64  `json:"cost_price" binding:"min=0"`
	ReorderLevel int64  `json:"reorder_level" binding:"min=0"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Category     string `json:"category,omitempty"`
	SKU          string `json:"sku"`
	UnitPrice    int64  `json:"unit_price"`
	CostPrice    int64  `json:"cost_price"`
	Quantity     int64  `json:"quantity"`
	ReorderLevel int64  `json:"reorder_level"`
	LowStock     bool   `json:"low_stock"`
	Version      int    `json:"version"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// SaleLineRequest represents one line of a sale request. A missing
// unit_price means the item's current selling price applies.
type SaleLineRequest struct {
	ItemID    string `json:"item_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	UnitPrice *int64 `json:"unit_price,omitempty" binding:"omitempty,min=0"`
}

// RecordSaleRequest represents a request to record a sale
type RecordSaleRequest struct {
	CustomerName  string            `json:"customer_name"`
	PaymentMethod string            `json:"payment_method"`
	Reference     string            `json:"reference"`
	Notes         string            `json:"notes"`
	OccurredAt    *time.Time        `json:"occurred_at,omitempty"`
	Lines         []SaleLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// SaleLineResponse represents one sale line in API responses
type SaleLineResponse struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            string             `json:"id"`
	CustomerName  string             `json:"customer_name,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
	Reference     string             `json:"reference,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	OccurredAt    string             `json:"occurred_at"`
	TotalAmount   int64              `json:"total_amount"`
	Lines         []SaleLineResponse `json:"lines"`
	CreatedAt     string             `json:"created_at"`
}

// PurchaseLineRequest represents one line of a purchase request. A
// missing cost_price means the item's current cost price applies.
type PurchaseLineRequest struct {
	ItemID    string `json:"item_id" binding:"required,uuid"`
	Quantity  int64  `json:"quantity" binding:"required,gt=0"`
	CostPrice *int64 `json:"cost_price,omitempty" binding:"omitempty,min=0"`
}

// RecordPurchaseRequest represents a request to record a purchase
type RecordPurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Reference    string                `json:"reference"`
	Notes        string                `json:"notes"`
	OccurredAt   *time.Time            `json:"occurred_at,omitempty"`
	Lines        []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// PurchaseLineResponse represents one purchase line in API responses
type PurchaseLineResponse struct {
	ItemID    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int64  `json:"quantity"`
	CostPrice int64  `json:"cost_price"`
	LineTotal int64  `json:"line_total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID           string                 `json:"id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	Reference    string                 `json:"reference,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	OccurredAt   string                 `json:"occurred_at"`
	TotalAmount  int64                  `json:"total_amount"`
	Lines        []PurchaseLineResponse `json:"lines"`
	CreatedAt    string                 `json:"created_at"`
}

// RecordAdjustmentRequest represents a request to record a manual stock
// correction. The delta is signed and must be non-zero.
type RecordAdjustmentRequest struct {
	ItemID        string     `json:"item_id" binding:"required,uuid"`
	QuantityDelta int64      `json:"quantity_delta" binding:"required"`
	Reference     string     `json:"reference"`
	Notes         string     `json:"notes"`
	OccurredAt    *time.Time `json:"occurred_at,omitempty"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Kind          string `json:"kind"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	QuantityDelta int64  `json:"quantity_delta"`
	UnitPrice     int64  `json:"unit_price"`
	TotalAmount   int64  `json:"total_amount"`
	Reference     string `json:"reference,omitempty"`
	Notes         string `json:"notes,omitempty"`
	OccurredAt    string `json:"occurred_at"`
	RecordedAt    string `json:"recorded_at"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// defaultRangeDays bounds open-ended range queries to the last 30 days
const defaultRangeDays = 30

// parseTimeRange reads the optional from/to RFC 3339 query parameters.
// Absent bounds default to the last defaultRangeDays days ending now.
func parseTimeRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	from := now.AddDate(0, 0, -defaultRangeDays)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid 'from' timestamp, expected RFC 3339")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondBadRequest(c, "Invalid 'to' timestamp, expected RFC 3339")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	if to.Before(from) {
		RespondBadRequest(c, "'to' must not precede 'from'")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

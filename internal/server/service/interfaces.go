package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/domain/sale"
	"github.com/inventory-ledger/internal/domain/shared"
)

// ItemService defines the interface for item directory operations
type ItemService interface {
	// CreateItem creates a new item with the given details
	// Returns ErrDuplicateSKU if an item with the same SKU exists
	CreateItem(ctx context.Context, name, description, category, sku string, unitPrice, costPrice, quantity, reorderLevel int64) (*item.Item, error)

	// GetItemByID retrieves an item by its ID
	// Returns ErrItemNotFound if the item doesn't exist
	GetItemByID(ctx context.Context, id uuid.UUID) (*item.Item, error)

	// ListItems returns all items; a non-empty search term filters on
	// name, description, category, and SKU
	ListItems(ctx context.Context, search string) ([]*item.Item, error)

	// UpdateItem updates the item's directory fields. Stock quantity is
	// owned by the recording operations and cannot be changed here.
	UpdateItem(ctx context.Context, id uuid.UUID, name, description, category, sku string, unitPrice, costPrice, reorderLevel int64) (*item.Item, error)

	// DeleteItem removes an item that has no ledger history
	// Returns ErrItemHasTransactions if ledger transactions reference it
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// ListLowStock returns items at or below their reorder level
	ListLowStock(ctx context.Context) ([]*item.Item, error)

	// CategorySummary aggregates item counts and stock totals per category
	CategorySummary(ctx context.Context) ([]item.CategoryAggregate, error)
}

// SaleLineInput is one requested sale position. A nil UnitPrice means
// the item's current selling price applies.
type SaleLineInput struct {
	ItemID    uuid.UUID
	Quantity  int64
	UnitPrice *int64
}

// RecordSaleInput carries everything needed to record a sale
type RecordSaleInput struct {
	CustomerName  string
	PaymentMethod string
	Reference     string
	Notes         string
	OccurredAt    time.Time
	Lines         []SaleLineInput
}

// PurchaseLineInput is one requested purchase position. A nil CostPrice
// means the item's current cost price applies.
type PurchaseLineInput struct {
	ItemID    uuid.UUID
	Quantity  int64
	CostPrice *int64
}

// RecordPurchaseInput carries everything needed to record a purchase
type RecordPurchaseInput struct {
	SupplierName string
	Reference    string
	Notes        string
	OccurredAt   time.Time
	Lines        []PurchaseLineInput
}

// RecordAdjustmentInput carries everything needed to record a manual
// stock correction
type RecordAdjustmentInput struct {
	ItemID        uuid.UUID
	QuantityDelta int64
	Reference     string
	Notes         string
	OccurredAt    time.Time
}

// StockService validates and commits stock mutations. Each Record call
// either fully commits (stock update, aggregate, ledger transaction via
// outbox) or leaves no trace.
type StockService interface {
	// RecordSale deducts stock for every line and persists the sale.
	// Returns ErrInsufficientStock naming the first offending item when
	// any line exceeds on-hand quantity.
	RecordSale(ctx context.Context, input RecordSaleInput) (*sale.Sale, error)

	// RecordPurchase receives stock for every line and persists the purchase
	RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*purchase.Purchase, error)

	// RecordAdjustment applies a signed manual correction to one item.
	// Returns ErrNegativeInventory if the delta would drive stock below zero.
	RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*ledger.Transaction, error)

	// GetSaleByID retrieves a sale with its lines
	GetSaleByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error)

	// ListSales returns sales that occurred within [from, to]
	ListSales(ctx context.Context, from, to time.Time) ([]*sale.Sale, error)

	// GetPurchaseByID retrieves a purchase with its lines
	GetPurchaseByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error)

	// ListPurchases returns purchases that occurred within [from, to]
	ListPurchases(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error)
}

// DailySales aggregates SALE transactions for one local calendar day
type DailySales struct {
	Date             string `json:"date"` // YYYY-MM-DD
	TotalAmount      int64  `json:"total_amount"`
	QuantitySold     int64  `json:"quantity_sold"`
	TransactionCount int64  `json:"transaction_count"`
}

// LedgerSummary partitions a time range's transactions by kind
type LedgerSummary struct {
	From               time.Time `json:"from"`
	To                 time.Time `json:"to"`
	TotalSales         int64     `json:"total_sales"`
	TotalPurchases     int64     `json:"total_purchases"`
	NetAmount          int64     `json:"net_amount"` // total_sales - total_purchases
	SaleCount          int64     `json:"sale_count"`
	PurchaseCount      int64     `json:"purchase_count"`
	AdjustmentCount    int64     `json:"adjustment_count"`
	AdjustmentQuantity int64     `json:"adjustment_quantity"` // Signed sum of adjustment deltas
}

// LedgerService defines read access to the committed transaction ledger
type LedgerService interface {
	// ListTransactions returns paginated transactions within [from, to],
	// optionally filtered by kind, plus the total count
	ListTransactions(ctx context.Context, from, to time.Time, kind shared.TransactionKind, page, perPage int) ([]*ledger.Transaction, int64, error)

	// ItemHistory returns paginated transactions for one item, newest
	// first, plus the total count
	ItemHistory(ctx context.Context, itemID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error)

	// Summary partitions the range's transactions by kind and computes
	// the net amount
	Summary(ctx context.Context, from, to time.Time) (*LedgerSummary, error)

	// DailySales groups the range's SALE transactions by local calendar
	// date, ascending
	DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error)
}

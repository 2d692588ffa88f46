package item

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CategoryAggregate holds per-category item counts and stock totals
type CategoryAggregate struct {
	Category      string `json:"category"`
	ItemCount     int64  `json:"item_count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// Repository defines item persistence operations
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	GetBySKU(ctx context.Context, sku string) (*Item, error)

	// List returns all items; a non-empty query filters on name,
	// description, category, and SKU
	List(ctx context.Context, query string) ([]*Item, error)
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListLowStock returns items with quantity at or below their reorder level
	ListLowStock(ctx context.Context) ([]*Item, error)
	CategorySummary(ctx context.Context) ([]CategoryAggregate, error)

	// LockForUpdate acquires a pessimistic lock for stock mutation
	LockForUpdate(ctx context.Context, id uuid.UUID) (*Item, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrItemNotFound indicates missing item
type ErrItemNotFound struct {
	ItemID uuid.UUID
}

func (e ErrItemNotFound) Error() string {
	return "item not found: " + e.ItemID.String()
}

// Is implements the errors.Is interface for ErrItemNotFound
func (e ErrItemNotFound) Is(target error) bool {
	t, ok := target.(ErrItemNotFound)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}

// ErrDuplicateSKU indicates SKU uniqueness violation
type ErrDuplicateSKU struct {
	SKU string
}

func (e ErrDuplicateSKU) Error() string {
	return "item with SKU already exists: " + e.SKU
}

// ErrConcurrentModification indicates optimistic lock failure
type ErrConcurrentModification struct {
	ItemID uuid.UUID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for item: " + e.ItemID.String()
}

// ErrItemHasTransactions rejects deletion of an item with ledger history
type ErrItemHasTransactions struct {
	ItemID       uuid.UUID
	Transactions int64
}

func (e ErrItemHasTransactions) Error() string {
	return fmt.Sprintf("item %s has %d ledger transactions and cannot be deleted", e.ItemID.String(), e.Transactions)
}

// ErrInsufficientStock rejects a sale line exceeding on-hand quantity
type ErrInsufficientStock struct {
	ItemID    uuid.UUID
	ItemName  string
	Requested int64
	Available int64
}

func (e ErrInsufficientStock) Error() string {
	return "insufficient stock for item " + e.ItemName +
		": requested " + strconv.FormatInt(e.Requested, 10) +
		", available " + strconv.FormatInt(e.Available, 10)
}

// Is implements the errors.Is interface for ErrInsufficientStock
func (e ErrInsufficientStock) Is(target error) bool {
	t, ok := target.(ErrInsufficientStock)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}

// ErrNegativeInventory rejects an adjustment that would drive quantity below zero
type ErrNegativeInventory struct {
	ItemID   uuid.UUID
	ItemName string
	Current  int64
	Delta    int64
}

func (e ErrNegativeInventory) Error() string {
	return "adjustment would drive inventory negative for item " + e.ItemName +
		": current " + strconv.FormatInt(e.Current, 10) +
		", delta " + strconv.FormatInt(e.Delta, 10)
}

// Is implements the errors.Is interface for ErrNegativeInventory
func (e ErrNegativeInventory) Is(target error) bool {
	t, ok := target.(ErrNegativeInventory)
	if !ok {
		return false
	}
	if t.ItemID == uuid.Nil {
		return true
	}
	return e.ItemID == t.ItemID
}

package item

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyName           = errors.New("item name cannot be empty")
	ErrEmptySKU            = errors.New("item SKU cannot be empty")
	ErrInvalidPrice        = errors.New("price cannot be negative")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidInitialStock = errors.New("initial quantity cannot be negative")
	ErrInvalidReorderLevel = errors.New("reorder level cannot be negative")
	ErrZeroAdjustment      = errors.New("adjustment delta cannot be zero")
)

// Item represents a stock-keeping unit
type Item struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	SKU          string    `json:"sku"`
	UnitPrice    int64     `json:"unit_price"` // Stored in cents/minor units
	CostPrice    int64     `json:"cost_price"` // Stored in cents/minor units
	Quantity     int64     `json:"quantity"`   // Never negative after a committed operation
	ReorderLevel int64     `json:"reorder_level"`
	Version      int       `json:"version"` // Optimistic locking; advanced by the store on each successful update
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewItem creates a new item with the given parameters
func NewItem(name, description, category, sku string, unitPrice, costPrice, quantity, reorderLevel int64) (*Item, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if sku == "" {
		return nil, ErrEmptySKU
	}
	if unitPrice < 0 || costPrice < 0 {
		return nil, ErrInvalidPrice
	}
	if quantity < 0 {
		return nil, ErrInvalidInitialStock
	}
	if reorderLevel < 0 {
		return nil, ErrInvalidReorderLevel
	}

	return &Item{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		Category:     category,
		SKU:          sku,
		UnitPrice:    unitPrice,
		CostPrice:    costPrice,
		Quantity:     quantity,
		ReorderLevel: reorderLevel,
		Version:      1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}, nil
}

// Revise updates the directory fields in one step. Quantity is owned by
// the stock operations and never changes here. Version stays at the
// loaded value; the repository advances it when the update commits, so
// any number of in-memory mutations amounts to one optimistic check.
func (i *Item) Revise(name, description, category, sku string, unitPrice, costPrice, reorderLevel int64) error {
	if name == "" {
		return ErrEmptyName
	}
	if sku == "" {
		return ErrEmptySKU
	}
	if unitPrice < 0 || costPrice < 0 {
		return ErrInvalidPrice
	}
	if reorderLevel < 0 {
		return ErrInvalidReorderLevel
	}

	i.Name = name
	i.Description = description
	i.Category = category
	i.SKU = sku
	i.UnitPrice = unitPrice
	i.CostPrice = costPrice
	i.ReorderLevel = reorderLevel
	i.UpdatedAt = time.Now()
	return nil
}

// Deduct removes sold stock from the item.
// Returns ErrInsufficientStock if the on-hand quantity does not cover the request.
func (i *Item) Deduct(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if i.Quantity < quantity {
		return ErrInsufficientStock{ItemID: i.ID, ItemName: i.Name, Requested: quantity, Available: i.Quantity}
	}

	i.Quantity -= quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Receive adds purchased stock to the item
func (i *Item) Receive(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	i.Quantity += quantity
	i.UpdatedAt = time.Now()
	return nil
}

// Adjust applies a signed manual correction to the on-hand quantity.
// Returns ErrNegativeInventory if the delta would drive the quantity below zero.
func (i *Item) Adjust(delta int64) error {
	if delta == 0 {
		return ErrZeroAdjustment
	}

	if i.Quantity+delta < 0 {
		return ErrNegativeInventory{ItemID: i.ID, ItemName: i.Name, Current: i.Quantity, Delta: delta}
	}

	i.Quantity += delta
	i.UpdatedAt = time.Now()
	return nil
}

// IsLowStock reports whether the item is at or below its reorder level
func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.ReorderLevel
}

// IsOutOfStock reports whether the item has no stock left
func (i *Item) IsOutOfStock() bool {
	return i.Quantity <= 0
}

package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/shared"
)

// Transaction represents one committed stock quantity movement.
// Transactions are append-only: once recorded they are never updated
// or deleted.
type Transaction struct {
	TransactionID uuid.UUID              `json:"transaction_id" bson:"transaction_id"`
	Kind          shared.TransactionKind `json:"kind" bson:"kind"`
	ItemID        uuid.UUID              `json:"item_id" bson:"item_id"`
	ItemName      string                 `json:"item_name" bson:"item_name"`
	QuantityDelta int64                  `json:"quantity_delta" bson:"quantity_delta"` // Negative for sales, positive for purchases
	UnitPrice     int64                  `json:"unit_price" bson:"unit_price"`         // Stored in cents/minor units
	TotalAmount   int64                  `json:"total_amount" bson:"total_amount"`     // |quantity_delta| * unit_price
	Reference     string                 `json:"reference,omitempty" bson:"reference,omitempty"`
	Notes         string                 `json:"notes,omitempty" bson:"notes,omitempty"`
	OccurredAt    time.Time              `json:"occurred_at" bson:"occurred_at"`
	RecordedAt    time.Time              `json:"recorded_at" bson:"recorded_at"`
}

// NewTransaction builds a ledger transaction for a single stock movement.
// The caller supplies the signed delta; the valuation total is always
// computed from its magnitude.
func NewTransaction(kind shared.TransactionKind, itemID uuid.UUID, itemName string, quantityDelta, unitPrice int64, reference, notes string, occurredAt time.Time) *Transaction {
	delta := quantityDelta
	if delta < 0 {
		delta = -delta
	}

	return &Transaction{
		TransactionID: uuid.New(),
		Kind:          kind,
		ItemID:        itemID,
		ItemName:      itemName,
		QuantityDelta: quantityDelta,
		UnitPrice:     unitPrice,
		TotalAmount:   delta * unitPrice,
		Reference:     reference,
		Notes:         notes,
		OccurredAt:    occurredAt,
		RecordedAt:    time.Now(),
	}
}

// StockEvent converts the transaction to its outbox wire form
func (t *Transaction) StockEvent(quantityAfter, reorderLevel int64) *shared.StockEvent {
	return &shared.StockEvent{
		TransactionID: t.TransactionID,
		Kind:          t.Kind,
		ItemID:        t.ItemID,
		ItemName:      t.ItemName,
		QuantityDelta: t.QuantityDelta,
		UnitPrice:     t.UnitPrice,
		TotalAmount:   t.TotalAmount,
		QuantityAfter: quantityAfter,
		ReorderLevel:  reorderLevel,
		Reference:     t.Reference,
		Notes:         t.Notes,
		OccurredAt:    t.OccurredAt,
		RecordedAt:    t.RecordedAt,
	}
}

// FromStockEvent rebuilds the ledger transaction carried by an outbox event
func FromStockEvent(e *shared.StockEvent) *Transaction {
	return &Transaction{
		TransactionID: e.TransactionID,
		Kind:          e.Kind,
		ItemID:        e.ItemID,
		ItemName:      e.ItemName,
		QuantityDelta: e.QuantityDelta,
		UnitPrice:     e.UnitPrice,
		TotalAmount:   e.TotalAmount,
		Reference:     e.Reference,
		Notes:         e.Notes,
		OccurredAt:    e.OccurredAt,
		RecordedAt:    e.RecordedAt,
	}
}

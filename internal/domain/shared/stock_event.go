package shared

import (
	"time"

	"github.com/google/uuid"
)

// StockEvent describes one committed stock movement. It is written to
// the outbox inside the same database transaction as the item update
// and later published to downstream consumers. QuantityAfter and
// ReorderLevel are carried so consumers can evaluate stock levels
// without a directory lookup.
type StockEvent struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          TransactionKind `json:"kind"`
	ItemID        uuid.UUID       `json:"item_id"`
	ItemName      string          `json:"item_name"`
	QuantityDelta int64           `json:"quantity_delta"` // Negative for sales, positive for purchases
	UnitPrice     int64           `json:"unit_price"`     // Stored in cents/minor units
	TotalAmount   int64           `json:"total_amount"`
	QuantityAfter int64           `json:"quantity_after"`
	ReorderLevel  int64           `json:"reorder_level"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

package purchase

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrNoLines         = errors.New("purchase must have at least one line")
	ErrInvalidQuantity = errors.New("line quantity must be positive")
	ErrInvalidPrice    = errors.New("line cost price cannot be negative")
)

// Line is one item position within a purchase
type Line struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int64     `json:"quantity"`
	CostPrice int64     `json:"cost_price"` // Stored in cents/minor units
	LineTotal int64     `json:"line_total"`
}

// Purchase aggregates one or more lines restocked from a supplier
type Purchase struct {
	ID           uuid.UUID `json:"id"`
	SupplierName string    `json:"supplier_name"`
	Reference    string    `json:"reference"`
	Notes        string    `json:"notes"`
	OccurredAt   time.Time `json:"occurred_at"`
	TotalAmount  int64     `json:"total_amount"`
	Lines        []Line    `json:"lines"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewPurchase validates the lines, computes line and aggregate totals,
// and assigns a fresh identity
func NewPurchase(supplierName, reference, notes string, occurredAt time.Time, lines []Line) (*Purchase, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	var total int64
	for i := range lines {
		if lines[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if lines[i].CostPrice < 0 {
			return nil, ErrInvalidPrice
		}
		lines[i].LineTotal = lines[i].Quantity * lines[i].CostPrice
		total += lines[i].LineTotal
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &Purchase{
		ID:           uuid.New(),
		SupplierName: supplierName,
		Reference:    reference,
		Notes:        notes,
		OccurredAt:   occurredAt,
		TotalAmount:  total,
		Lines:        lines,
		CreatedAt:    time.Now(),
	}, nil
}

// QuantityReceived returns the summed line quantities
func (p *Purchase) QuantityReceived() int64 {
	var total int64
	for _, line := range p.Lines {
		total += line.Quantity
	}
	return total
}

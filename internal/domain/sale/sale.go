package sale

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrNoLines         = errors.New("sale must have at least one line")
	ErrInvalidQuantity = errors.New("line quantity must be positive")
	ErrInvalidPrice    = errors.New("line unit price cannot be negative")
)

// Line is one item position within a sale
type Line struct {
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int64     `json:"quantity"`
	UnitPrice int64     `json:"unit_price"` // Stored in cents/minor units
	LineTotal int64     `json:"line_total"`
}

// Sale aggregates one or more lines sold together to a customer
type Sale struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	PaymentMethod string    `json:"payment_method"`
	Reference     string    `json:"reference"`
	Notes         string    `json:"notes"`
	OccurredAt    time.Time `json:"occurred_at"`
	TotalAmount   int64     `json:"total_amount"`
	Lines         []Line    `json:"lines"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewSale validates the lines, computes line and aggregate totals,
// and assigns a fresh identity
func NewSale(customerName, paymentMethod, reference, notes string, occurredAt time.Time, lines []Line) (*Sale, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	var total int64
	for i := range lines {
		if lines[i].Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if lines[i].UnitPrice < 0 {
			return nil, ErrInvalidPrice
		}
		lines[i].LineTotal = lines[i].Quantity * lines[i].UnitPrice
		total += lines[i].LineTotal
	}

	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &Sale{
		ID:            uuid.New(),
		CustomerName:  customerName,
		PaymentMethod: paymentMethod,
		Reference:     reference,
		Notes:         notes,
		OccurredAt:    occurredAt,
		TotalAmount:   total,
		Lines:         lines,
		CreatedAt:     time.Now(),
	}, nil
}

// QuantitySold returns the summed line quantities
func (s *Sale) QuantitySold() int64 {
	var total int64
	for _, line := range s.Lines {
		total += line.Quantity
	}
	return total
}

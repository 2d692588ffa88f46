package sale

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines sale aggregate persistence operations
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]*Sale, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrSaleNotFound indicates missing sale
type ErrSaleNotFound struct {
	SaleID uuid.UUID
}

func (e ErrSaleNotFound) Error() string {
	return "sale not found: " + e.SaleID.String()
}

// Is implements the errors.Is interface for ErrSaleNotFound
func (e ErrSaleNotFound) Is(target error) bool {
	t, ok := target.(ErrSaleNotFound)
	if !ok {
		return false
	}
	if t.SaleID == uuid.Nil {
		return true
	}
	return e.SaleID == t.SaleID
}

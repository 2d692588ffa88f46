package purchase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines purchase aggregate persistence operations
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	ListByTimeRange(ctx context.Context, from, to time.Time) ([]*Purchase, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrPurchaseNotFound indicates missing purchase
type ErrPurchaseNotFound struct {
	PurchaseID uuid.UUID
}

func (e ErrPurchaseNotFound) Error() string {
	return "purchase not found: " + e.PurchaseID.String()
}

// Is implements the errors.Is interface for ErrPurchaseNotFound
func (e ErrPurchaseNotFound) Is(target error) bool {
	t, ok := target.(ErrPurchaseNotFound)
	if !ok {
		return false
	}
	if t.PurchaseID == uuid.Nil {
		return true
	}
	return e.PurchaseID == t.PurchaseID
}

package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/shared"
)

// Repository manages append-only ledger transaction persistence.
// A zero-value kind filter means all kinds.
type Repository interface {
	Create(ctx context.Context, txn *Transaction) error
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Transaction, error)
	GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error)
	GetByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind, limit, offset int) ([]*Transaction, error)
	CountByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind) (int64, error)
}

// ErrTransactionNotFound indicates missing ledger transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "ledger transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	// An empty target TransactionID matches any ErrTransactionNotFound
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateTransaction indicates transaction uniqueness violation
type ErrDuplicateTransaction struct {
	TransactionID uuid.UUID
}

func (e ErrDuplicateTransaction) Error() string {
	return "duplicate ledger transaction: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrDuplicateTransaction
func (e ErrDuplicateTransaction) Is(target error) bool {
	t, ok := target.(ErrDuplicateTransaction)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

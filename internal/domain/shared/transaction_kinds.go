package shared

import "errors"

var ErrInvalidTransactionKind = errors.New("invalid transaction kind")

// TransactionKind defines the three stock-affecting event kinds
type TransactionKind string

const (
	TransactionKindSale       TransactionKind = "SALE"
	TransactionKindPurchase   TransactionKind = "PURCHASE"
	TransactionKindAdjustment TransactionKind = "ADJUSTMENT"
)

// ParseTransactionKind converts a wire value to a TransactionKind
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case TransactionKindSale, TransactionKindPurchase, TransactionKindAdjustment:
		return TransactionKind(s), nil
	default:
		return "", ErrInvalidTransactionKind
	}
}

// OutboxStatus defines stock event publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)

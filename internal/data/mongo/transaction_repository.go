// Package mongo provides the MongoDB implementation of the ledger repository.
// Ledger transactions are append-only documents; nothing here updates or
// deletes a committed transaction.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/shared"
)

const (
	// TransactionCollectionName is the name of the ledger collection in MongoDB
	TransactionCollectionName = "ledger_transactions"
)

// TransactionRepository implements the ledger.Repository interface for MongoDB
type TransactionRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewTransactionRepository creates a new MongoDB ledger transaction repository
func NewTransactionRepository(logger *slog.Logger, db *mongo.Database) ledger.Repository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a new ledger transaction after checking for duplicates.
// Returns ErrDuplicateTransaction if one with the same transaction ID exists,
// which keeps the outbox poller idempotent across retries.
func (r *TransactionRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	collection := r.db.Collection(TransactionCollectionName)

	existing, err := r.GetByTransactionID(ctx, txn.TransactionID)
	if err != nil && !errors.Is(err, ledger.ErrTransactionNotFound{}) {
		r.logger.Error("Failed to check for existing ledger transaction",
			"transaction_id", txn.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing ledger transaction: %w", err)
	}

	if existing != nil {
		return ledger.ErrDuplicateTransaction{TransactionID: txn.TransactionID}
	}

	_, err = collection.InsertOne(ctx, txn)
	if err != nil {
		r.logger.Error("Failed to create ledger transaction",
			"transaction_id", txn.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to create ledger transaction: %w", err)
	}

	return nil
}

// GetByTransactionID retrieves a ledger transaction by its transaction ID.
// Returns ErrTransactionNotFound if no transaction exists for the given ID.
func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var txn ledger.Transaction
	err := collection.FindOne(ctx, filter).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get ledger transaction",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get ledger transaction: %w", err)
	}

	return &txn, nil
}

// GetByItemID retrieves paginated ledger transactions for an item.
// Results are sorted by occurrence time in descending order (newest first).
func (r *TransactionRepository) GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"item_id": itemID}
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get ledger transactions",
			"item_id", itemID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get ledger transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []*ledger.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode ledger transactions",
			"item_id", itemID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to decode ledger transactions: %w", err)
	}

	return transactions, nil
}

// CountByItemID counts the total number of ledger transactions for an item
func (r *TransactionRepository) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := bson.M{"item_id": itemID}
	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		r.logger.Error("Failed to count ledger transactions",
			"item_id", itemID.String(),
			"error", err)
		return 0, fmt.Errorf("failed to count ledger transactions: %w", err)
	}

	return count, nil
}

// GetByTimeRange retrieves paginated ledger transactions within the specified
// time window, optionally filtered by kind. Results are sorted by occurrence
// time in descending order for recent-first access.
func (r *TransactionRepository) GetByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind, limit, offset int) ([]*ledger.Transaction, error) {
	collection := r.db.Collection(TransactionCollectionName)

	filter := timeRangeFilter(from, to, kind)
	opts := options.Find().
		SetSort(bson.M{"occurred_at": -1}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get ledger transactions by time range",
			"from", from,
			"to", to,
			"error", err)
		return nil, fmt.Errorf("failed to get ledger transactions by time range: %w", err)
	}
	defer cursor.Close(ctx)

	var transactions []*ledger.Transaction
	if err := cursor.All(ctx, &transactions); err != nil {
		r.logger.Error("Failed to decode ledger transactions",
			"from", from,
			"to", to,
			"error", err)
		return nil, fmt.Errorf("failed to decode ledger transactions: %w", err)
	}

	return transactions, nil
}

// CountByTimeRange counts ledger transactions within the specified time window,
// optionally filtered by kind
func (r *TransactionRepository) CountByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind) (int64, error) {
	collection := r.db.Collection(TransactionCollectionName)

	count, err := collection.CountDocuments(ctx, timeRangeFilter(from, to, kind))
	if err != nil {
		r.logger.Error("Failed to count ledger transactions by time range",
			"from", from,
			"to", to,
			"error", err)
		return 0, fmt.Errorf("failed to count ledger transactions by time range: %w", err)
	}

	return count, nil
}

// timeRangeFilter builds the query filter for a time window. An empty kind
// matches all transaction kinds.
func timeRangeFilter(from, to time.Time, kind shared.TransactionKind) bson.M {
	filter := bson.M{
		"occurred_at": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	if kind != "" {
		filter["kind"] = kind
	}
	return filter
}

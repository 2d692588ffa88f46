package outbox_poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/outbox"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/platform/messaging/producers"
	"github.com/inventory-ledger/internal/platform/metrics"
)

// StockEventPublisher delivers one outbox message: append to the ledger,
// then broadcast the stock event
type StockEventPublisher interface {
	Publish(ctx context.Context, message *outbox.Message) error
}

// StockEventPublisherImpl implements StockEventPublisher
type StockEventPublisherImpl struct {
	outboxRepo outbox.Repository
	ledgerRepo ledger.Repository
	producer   producers.MessagePublisher
	logger     *slog.Logger
}

// NewStockEventPublisher creates a new publisher
func NewStockEventPublisher(
	outboxRepo outbox.Repository,
	ledgerRepo ledger.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) StockEventPublisher {
	return &StockEventPublisherImpl{
		outboxRepo: outboxRepo,
		ledgerRepo: ledgerRepo,
		producer:   producer,
		logger:     logger,
	}
}

// Publish appends the message's ledger transaction to the ledger store,
// emits the stock event to Kafka, and marks the outbox row PROCESSED.
// Both writes are idempotent on transaction ID, so a crash between steps
// only causes a harmless replay.
func (p *StockEventPublisherImpl) Publish(ctx context.Context, message *outbox.Message) error {
	event, err := message.GetStockEvent()
	if err != nil {
		p.logger.Error("Failed to unmarshal stock event from outbox payload",
			"outbox_id", message.ID, "transaction_id", message.TransactionID, "error", err,
		)
		// A corrupt payload never becomes publishable; park it immediately
		if updateErr := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusFailedToPublish); updateErr != nil {
			p.logger.Error("Also failed to update outbox status to FAILED_TO_PUBLISH after unmarshal error",
				"outbox_id", message.ID, "update_error", updateErr,
			)
		}
		return fmt.Errorf("unmarshal payload for outbox %d failed: %w", message.ID, err)
	}

	existing, err := p.ledgerRepo.GetByTransactionID(ctx, event.TransactionID)
	if err != nil && !errors.Is(err, ledger.ErrTransactionNotFound{}) {
		return fmt.Errorf("failed to check existing ledger transaction %s: %w", event.TransactionID, err)
	}

	if existing != nil {
		p.logger.Info("Ledger transaction already recorded, skipping append",
			"transaction_id", event.TransactionID,
		)
	} else {
		txn := ledger.FromStockEvent(event)
		if err := p.ledgerRepo.Create(ctx, txn); err != nil && !errors.Is(err, ledger.ErrDuplicateTransaction{}) {
			return fmt.Errorf("failed to append ledger transaction %s: %w", event.TransactionID, err)
		}
	}

	if err := p.producer.Publish(ctx, event.ItemID.String(), event); err != nil {
		return fmt.Errorf("failed to publish stock event %s: %w", event.TransactionID, err)
	}

	if err := p.outboxRepo.UpdateStatus(ctx, message.ID, shared.OutboxStatusProcessed); err != nil {
		return fmt.Errorf("ledger write for %s OK, but failed to mark outbox %d as PROCESSED: %w",
			message.TransactionID, message.ID, err)
	}

	metrics.OutboxPublished.Inc()
	p.logger.Info("Outbox message processed and marked as PROCESSED",
		"outbox_id", message.ID, "transaction_id", message.TransactionID,
	)
	return nil
}

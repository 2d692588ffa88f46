package alerter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/platform/messaging/producers"
	"github.com/inventory-ledger/internal/platform/metrics"
)

// StockEventHandler handles incoming stock event messages from Kafka
type StockEventHandler struct {
	alertService AlertService
	producer     producers.DeadLetterPublisher
	logger       *slog.Logger
}

// NewStockEventHandler creates a new handler
func NewStockEventHandler(
	logger *slog.Logger,
	alertService AlertService,
	producer producers.DeadLetterPublisher,
) *StockEventHandler {
	return &StockEventHandler{
		alertService: alertService,
		producer:     producer,
		logger:       logger,
	}
}

// HandleMessage processes Kafka messages
func (h *StockEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.StockEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal stock event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)
		metrics.StockEventsConsumed.WithLabelValues("malformed").Inc()

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	h.logger.Info("Received stock event",
		"transaction_id", event.TransactionID.String(),
		"item_id", event.ItemID.String(),
		"kind", string(event.Kind),
		"quantity_after", event.QuantityAfter,
	)

	if err := h.alertService.Evaluate(ctx, &event); err != nil {
		metrics.StockEventsConsumed.WithLabelValues("failed").Inc()
		h.logger.Error("Failed to evaluate stock event",
			"transaction_id", event.TransactionID.String(),
			"item_id", event.ItemID.String(),
			"error", err,
		)
		return fmt.Errorf("evaluating stock event %s failed: %w", event.TransactionID.String(), err)
	}

	metrics.StockEventsConsumed.WithLabelValues("processed").Inc()
	return nil // Success, commit offset
}

// Package alerter consumes stock events and raises low-stock and
// out-of-stock alerts.
package alerter

import (
	"context"
	"log/slog"

	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/platform/metrics"
)

// Alert severities, ordered by urgency
const (
	SeverityOutOfStock = "out_of_stock"
	SeverityLowStock   = "low_stock"
)

// AlertService evaluates one stock event for alert conditions
type AlertService interface {
	Evaluate(ctx context.Context, event *shared.StockEvent) error
}

// AlertServiceImpl implements the AlertService interface. Events carry
// the post-movement quantity and the reorder level, so evaluation needs
// no directory lookup.
type AlertServiceImpl struct {
	logger *slog.Logger
}

// NewAlertService creates a new alert service
func NewAlertService(logger *slog.Logger) AlertService {
	return &AlertServiceImpl{logger: logger}
}

// Evaluate raises an alert when the event leaves the item out of stock
// or at or below its reorder level. Replenishing events above the
// reorder level clear silently.
func (s *AlertServiceImpl) Evaluate(ctx context.Context, event *shared.StockEvent) error {
	switch {
	case event.QuantityAfter <= 0:
		metrics.LowStockAlerts.WithLabelValues(SeverityOutOfStock).Inc()
		s.logger.Warn("Item out of stock",
			"item_id", event.ItemID.String(),
			"item_name", event.ItemName,
			"kind", string(event.Kind),
			"quantity_after", event.QuantityAfter,
			"transaction_id", event.TransactionID.String(),
		)
	case event.QuantityAfter <= event.ReorderLevel:
		metrics.LowStockAlerts.WithLabelValues(SeverityLowStock).Inc()
		s.logger.Warn("Item at or below reorder level",
			"item_id", event.ItemID.String(),
			"item_name", event.ItemName,
			"kind", string(event.Kind),
			"quantity_after", event.QuantityAfter,
			"reorder_level", event.ReorderLevel,
			"transaction_id", event.TransactionID.String(),
		)
	default:
		s.logger.Debug("Stock level healthy",
			"item_id", event.ItemID.String(),
			"quantity_after", event.QuantityAfter,
			"reorder_level", event.ReorderLevel,
		)
	}
	return nil
}

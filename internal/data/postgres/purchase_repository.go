package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// PurchaseRepository implements the purchase.Repository interface for PostgreSQL
type PurchaseRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewPurchaseRepository creates a new PostgreSQL purchase repository
func NewPurchaseRepository(logger *slog.Logger, db *persistence.PostgresDB) purchase.Repository {
	return &PurchaseRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the purchase header and
// its lines commit atomically with the stock mutations they caused.
func (r *PurchaseRepository) WithTx(tx pgx.Tx) purchase.Repository {
	return &PurchaseRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores the purchase header and all of its lines
func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	headerQuery := `
		INSERT INTO purchases (id, supplier_name, reference, notes, occurred_at, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, headerQuery,
		p.ID,
		p.SupplierName,
		p.Reference,
		p.Notes,
		p.OccurredAt,
		p.TotalAmount,
		p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create purchase", "id", p.ID.String(), "error", err)
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	lineQuery := `
		INSERT INTO purchase_lines (purchase_id, item_id, item_name, quantity, cost_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, line := range p.Lines {
		_, err := r.querier.Exec(ctx, lineQuery,
			p.ID,
			line.ItemID,
			line.ItemName,
			line.Quantity,
			line.CostPrice,
			line.LineTotal,
		)
		if err != nil {
			r.logger.Error("Failed to create purchase line",
				"purchase_id", p.ID.String(),
				"item_id", line.ItemID.String(),
				"error", err,
			)
			return fmt.Errorf("failed to create purchase line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a purchase with all of its lines
func (r *PurchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	headerQuery := `
		SELECT id, supplier_name, reference, notes, occurred_at, total_amount, created_at
		FROM purchases
		WHERE id = $1
	`

	var p purchase.Purchase
	err := r.querier.QueryRow(ctx, headerQuery, id).Scan(
		&p.ID,
		&p.SupplierName,
		&p.Reference,
		&p.Notes,
		&p.OccurredAt,
		&p.TotalAmount,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, purchase.ErrPurchaseNotFound{PurchaseID: id}
		}
		r.logger.Error("Failed to get purchase", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	lines, err := r.linesForPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines

	return &p, nil
}

// ListByTimeRange returns purchases that occurred within [from, to], newest first
func (r *PurchaseRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error) {
	headerQuery := `
		SELECT id, supplier_name, reference, notes, occurred_at, total_amount, created_at
		FROM purchases
		WHERE occurred_at >= $1 AND occurred_at <= $2
		ORDER BY occurred_at DESC
	`

	rows, err := r.querier.Query(ctx, headerQuery, from, to)
	if err != nil {
		r.logger.Error("Failed to list purchases", "error", err)
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []*purchase.Purchase
	for rows.Next() {
		var p purchase.Purchase
		err := rows.Scan(
			&p.ID,
			&p.SupplierName,
			&p.Reference,
			&p.Notes,
			&p.OccurredAt,
			&p.TotalAmount,
			&p.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan purchase", "error", err)
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over purchases", "error", err)
		return nil, fmt.Errorf("error iterating over purchases: %w", err)
	}

	for _, p := range purchases {
		lines, err := r.linesForPurchase(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		p.Lines = lines
	}

	return purchases, nil
}

func (r *PurchaseRepository) linesForPurchase(ctx context.Context, purchaseID uuid.UUID) ([]purchase.Line, error) {
	query := `
		SELECT item_id, item_name, quantity, cost_price, line_total
		FROM purchase_lines
		WHERE purchase_id = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, purchaseID)
	if err != nil {
		r.logger.Error("Failed to get purchase lines", "purchase_id", purchaseID.String(), "error", err)
		return nil, fmt.Errorf("failed to get purchase lines: %w", err)
	}
	defer rows.Close()

	var lines []purchase.Line
	for rows.Next() {
		var line purchase.Line
		err := rows.Scan(
			&line.ItemID,
			&line.ItemName,
			&line.Quantity,
			&line.CostPrice,
			&line.LineTotal,
		)
		if err != nil {
			r.logger.Error("Failed to scan purchase line", "error", err)
			return nil, fmt.Errorf("failed to scan purchase line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over purchase lines", "error", err)
		return nil, fmt.Errorf("error iterating over purchase lines: %w", err)
	}

	return lines, nil
}

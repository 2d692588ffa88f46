package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/sale"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
)

// SaleRepository implements the sale.Repository interface for PostgreSQL
type SaleRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSaleRepository creates a new PostgreSQL sale repository
func NewSaleRepository(logger *slog.Logger, db *persistence.PostgresDB) sale.Repository {
	return &SaleRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction so the sale header and its
// lines commit atomically with the stock mutations they caused.
func (r *SaleRepository) WithTx(tx pgx.Tx) sale.Repository {
	return &SaleRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores the sale header and all of its lines
func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	headerQuery := `
		INSERT INTO sales (id, customer_name, payment_method, reference, notes, occurred_at, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, headerQuery,
		s.ID,
		s.CustomerName,
		s.PaymentMethod,
		s.Reference,
		s.Notes,
		s.OccurredAt,
		s.TotalAmount,
		s.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create sale", "id", s.ID.String(), "error", err)
		return fmt.Errorf("failed to create sale: %w", err)
	}

	lineQuery := `
		INSERT INTO sale_lines (sale_id, item_id, item_name, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, line := range s.Lines {
		_, err := r.querier.Exec(ctx, lineQuery,
			s.ID,
			line.ItemID,
			line.ItemName,
			line.Quantity,
			line.UnitPrice,
			line.LineTotal,
		)
		if err != nil {
			r.logger.Error("Failed to create sale line",
				"sale_id", s.ID.String(),
				"item_id", line.ItemID.String(),
				"error", err,
			)
			return fmt.Errorf("failed to create sale line: %w", err)
		}
	}

	return nil
}

// GetByID retrieves a sale with all of its lines
func (r *SaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	headerQuery := `
		SELECT id, customer_name, payment_method, reference, notes, occurred_at, total_amount, created_at
		FROM sales
		WHERE id = $1
	`

	var s sale.Sale
	err := r.querier.QueryRow(ctx, headerQuery, id).Scan(
		&s.ID,
		&s.CustomerName,
		&s.PaymentMethod,
		&s.Reference,
		&s.Notes,
		&s.OccurredAt,
		&s.TotalAmount,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sale.ErrSaleNotFound{SaleID: id}
		}
		r.logger.Error("Failed to get sale", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	lines, err := r.linesForSale(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines

	return &s, nil
}

// ListByTimeRange returns sales that occurred within [from, to], newest first
func (r *SaleRepository) ListByTimeRange(ctx context.Context, from, to time.Time) ([]*sale.Sale, error) {
	headerQuery := `
		SELECT id, customer_name, payment_method, reference, notes, occurred_at, total_amount, created_at
		FROM sales
		WHERE occurred_at >= $1 AND occurred_at <= $2
		ORDER BY occurred_at DESC
	`

	rows, err := r.querier.Query(ctx, headerQuery, from, to)
	if err != nil {
		r.logger.Error("Failed to list sales", "error", err)
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []*sale.Sale
	for rows.Next() {
		var s sale.Sale
		err := rows.Scan(
			&s.ID,
			&s.CustomerName,
			&s.PaymentMethod,
			&s.Reference,
			&s.Notes,
			&s.OccurredAt,
			&s.TotalAmount,
			&s.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan sale", "error", err)
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, &s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over sales", "error", err)
		return nil, fmt.Errorf("error iterating over sales: %w", err)
	}

	for _, s := range sales {
		lines, err := r.linesForSale(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Lines = lines
	}

	return sales, nil
}

func (r *SaleRepository) linesForSale(ctx context.Context, saleID uuid.UUID) ([]sale.Line, error) {
	query := `
		SELECT item_id, item_name, quantity, unit_price, line_total
		FROM sale_lines
		WHERE sale_id = $1
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, saleID)
	if err != nil {
		r.logger.Error("Failed to get sale lines", "sale_id", saleID.String(), "error", err)
		return nil, fmt.Errorf("failed to get sale lines: %w", err)
	}
	defer rows.Close()

	var lines []sale.Line
	for rows.Next() {
		var line sale.Line
		err := rows.Scan(
			&line.ItemID,
			&line.ItemName,
			&line.Quantity,
			&line.UnitPrice,
			&line.LineTotal,
		)
		if err != nil {
			r.logger.Error("Failed to scan sale line", "error", err)
			return nil, fmt.Errorf("failed to scan sale line: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over sale lines", "error", err)
		return nil, fmt.Errorf("error iterating over sale lines: %w", err)
	}

	return lines, nil
}

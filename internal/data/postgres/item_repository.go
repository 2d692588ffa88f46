// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the inventory ledger system.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/platform/persistence"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// ItemRepository implements the item.Repository interface for PostgreSQL
type ItemRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewItemRepository creates a new PostgreSQL item repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewItemRepository(logger *slog.Logger, db *persistence.PostgresDB) item.Repository {
	return &ItemRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls. The returned repository will use the provided
// transaction for all database operations.
func (r *ItemRepository) WithTx(tx pgx.Tx) item.Repository {
	return &ItemRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new item in the database. A duplicate SKU surfaces as
// item.ErrDuplicateSKU via the unique constraint on the sku column.
func (r *ItemRepository) Create(ctx context.Context, itm *item.Item) error {
	query := `
		INSERT INTO items (id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.querier.Exec(ctx, query,
		itm.ID,
		itm.Name,
		itm.Description,
		itm.Category,
		itm.SKU,
		itm.UnitPrice,
		itm.CostPrice,
		itm.Quantity,
		itm.ReorderLevel,
		itm.Version,
		itm.CreatedAt,
		itm.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return item.ErrDuplicateSKU{SKU: itm.SKU}
		}
		r.logger.Error("Failed to create item", "error", err)
		return fmt.Errorf("failed to create item: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at
		FROM items
		WHERE id = $1
	`

	var itm item.Item
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&itm.ID,
		&itm.Name,
		&itm.Description,
		&itm.Category,
		&itm.SKU,
		&itm.UnitPrice,
		&itm.CostPrice,
		&itm.Quantity,
		&itm.ReorderLevel,
		&itm.Version,
		&itm.CreatedAt,
		&itm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to get item", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	return &itm, nil
}

// GetBySKU retrieves an item by its SKU
func (r *ItemRepository) GetBySKU(ctx context.Context, sku string) (*item.Item, error) {
	query := `
		SELECT id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at
		FROM items
		WHERE sku = $1
	`

	var itm item.Item
	err := r.querier.QueryRow(ctx, query, sku).Scan(
		&itm.ID,
		&itm.Name,
		&itm.Description,
		&itm.Category,
		&itm.SKU,
		&itm.UnitPrice,
		&itm.CostPrice,
		&itm.Quantity,
		&itm.ReorderLevel,
		&itm.Version,
		&itm.CreatedAt,
		&itm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No item carries this SKU
		}
		r.logger.Error("Failed to get item by SKU", "sku", sku, "error", err)
		return nil, fmt.Errorf("failed to get item by SKU: %w", err)
	}

	return &itm, nil
}

// List returns all items ordered by name. A non-empty search term filters
// on name, description, category, and SKU using case-insensitive matching.
func (r *ItemRepository) List(ctx context.Context, search string) ([]*item.Item, error) {
	query := `
		SELECT id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at
		FROM items
	`
	args := []interface{}{}

	if search != "" {
		query += `
		WHERE name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1 OR sku ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += `
		ORDER BY name ASC
	`

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list items", "error", err)
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// Update persists the item using optimistic locking on the version column.
// The entity carries the version it was loaded with; the update advances
// it by one, so an operation that mutated the item several times in
// memory still amounts to a single version step. Returns
// ErrConcurrentModification if the row changed since it was read.
func (r *ItemRepository) Update(ctx context.Context, itm *item.Item) error {
	query := `
		UPDATE items
		SET name = $1, description = $2, category = $3, sku = $4, unit_price = $5, cost_price = $6, quantity = $7, reorder_level = $8, version = $9, updated_at = $10
		WHERE id = $11 AND version = $12
	`

	result, err := r.querier.Exec(ctx, query,
		itm.Name,
		itm.Description,
		itm.Category,
		itm.SKU,
		itm.UnitPrice,
		itm.CostPrice,
		itm.Quantity,
		itm.ReorderLevel,
		itm.Version+1,
		itm.UpdatedAt,
		itm.ID,
		itm.Version, // Version as loaded; any concurrent writer has moved it
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return item.ErrDuplicateSKU{SKU: itm.SKU}
		}
		r.logger.Error("Failed to update item", "id", itm.ID.String(), "error", err)
		return fmt.Errorf("failed to update item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return item.ErrConcurrentModification{ItemID: itm.ID}
	}

	itm.Version++
	return nil
}

// Delete removes an item permanently. Callers must verify the item has no
// ledger history before invoking this.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM items
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to delete item", "id", id.String(), "error", err)
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return item.ErrItemNotFound{ItemID: id}
	}

	return nil
}

// ListLowStock returns items whose quantity sits at or below their reorder level
func (r *ItemRepository) ListLowStock(ctx context.Context) ([]*item.Item, error) {
	query := `
		SELECT id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at
		FROM items
		WHERE quantity <= reorder_level
		ORDER BY quantity ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list low stock items", "error", err)
		return nil, fmt.Errorf("failed to list low stock items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// CategorySummary aggregates item counts and stock totals per category
func (r *ItemRepository) CategorySummary(ctx context.Context) ([]item.CategoryAggregate, error) {
	query := `
		SELECT category, COUNT(*), COALESCE(SUM(quantity), 0)
		FROM items
		GROUP BY category
		ORDER BY category ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to summarize categories", "error", err)
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}
	defer rows.Close()

	var aggregates []item.CategoryAggregate
	for rows.Next() {
		var agg item.CategoryAggregate
		if err := rows.Scan(&agg.Category, &agg.ItemCount, &agg.TotalQuantity); err != nil {
			r.logger.Error("Failed to scan category aggregate", "error", err)
			return nil, fmt.Errorf("failed to scan category aggregate: %w", err)
		}
		aggregates = append(aggregates, agg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over category aggregates", "error", err)
		return nil, fmt.Errorf("error iterating over category aggregates: %w", err)
	}

	return aggregates, nil
}

// LockForUpdate obtains a pessimistic lock on the item and returns its current state.
// This should be used within a transaction when strong consistency is required.
func (r *ItemRepository) LockForUpdate(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	query := `
		SELECT id, name, description, category, sku, unit_price, cost_price, quantity, reorder_level, version, created_at, updated_at
		FROM items
		WHERE id = $1
		FOR UPDATE
	`

	var itm item.Item
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&itm.ID,
		&itm.Name,
		&itm.Description,
		&itm.Category,
		&itm.SKU,
		&itm.UnitPrice,
		&itm.CostPrice,
		&itm.Quantity,
		&itm.ReorderLevel,
		&itm.Version,
		&itm.CreatedAt,
		&itm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, item.ErrItemNotFound{ItemID: id}
		}
		r.logger.Error("Failed to lock item for update", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to lock item for update: %w", err)
	}

	return &itm, nil
}

func scanItems(rows pgx.Rows) ([]*item.Item, error) {
	var items []*item.Item
	for rows.Next() {
		var itm item.Item
		err := rows.Scan(
			&itm.ID,
			&itm.Name,
			&itm.Description,
			&itm.Category,
			&itm.SKU,
			&itm.UnitPrice,
			&itm.CostPrice,
			&itm.Quantity,
			&itm.ReorderLevel,
			&itm.Version,
			&itm.CreatedAt,
			&itm.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &itm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over items: %w", err)
	}

	return items, nil
}

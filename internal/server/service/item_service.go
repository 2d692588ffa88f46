package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
)

// ItemServiceImpl implements the ItemService interface
type ItemServiceImpl struct {
	itemRepo   item.Repository
	ledgerRepo ledger.Repository
}

// NewItemService creates a new item service
func NewItemService(itemRepo item.Repository, ledgerRepo ledger.Repository) ItemService {
	return &ItemServiceImpl{
		itemRepo:   itemRepo,
		ledgerRepo: ledgerRepo,
	}
}

// CreateItem creates a new item with the given details, checking for duplicate SKUs
func (s *ItemServiceImpl) CreateItem(ctx context.Context, name, description, category, sku string, unitPrice, costPrice, quantity, reorderLevel int64) (*item.Item, error) {
	existingItem, err := s.itemRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existingItem != nil {
		return nil, item.ErrDuplicateSKU{SKU: sku}
	}

	itm, err := item.NewItem(name, description, category, sku, unitPrice, costPrice, quantity, reorderLevel)
	if err != nil {
		return nil, err
	}

	if err := s.itemRepo.Create(ctx, itm); err != nil {
		return nil, err
	}

	return itm, nil
}

// GetItemByID retrieves an item by its ID, returns ErrItemNotFound if not found
func (s *ItemServiceImpl) GetItemByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	return s.itemRepo.GetByID(ctx, id)
}

// ListItems returns all items, optionally filtered by a search term
func (s *ItemServiceImpl) ListItems(ctx context.Context, search string) ([]*item.Item, error) {
	return s.itemRepo.List(ctx, search)
}

// UpdateItem updates the item's directory fields using optimistic locking.
// Quantity stays untouched; only the recording operations move stock.
func (s *ItemServiceImpl) UpdateItem(ctx context.Context, id uuid.UUID, name, description, category, sku string, unitPrice, costPrice, reorderLevel int64) (*item.Item, error) {
	itm, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := itm.Revise(name, description, category, sku, unitPrice, costPrice, reorderLevel); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, itm); err != nil {
		return nil, err
	}

	return itm, nil
}

// DeleteItem removes an item, refusing while ledger transactions reference it.
// The ledger is append-only, so deleting a referenced item would orphan its
// history.
func (s *ItemServiceImpl) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.itemRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.ledgerRepo.CountByItemID(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return item.ErrItemHasTransactions{ItemID: id, Transactions: count}
	}

	return s.itemRepo.Delete(ctx, id)
}

// ListLowStock returns items at or below their reorder level
func (s *ItemServiceImpl) ListLowStock(ctx context.Context) ([]*item.Item, error) {
	return s.itemRepo.ListLowStock(ctx)
}

// CategorySummary aggregates item counts and stock totals per category
func (s *ItemServiceImpl) CategorySummary(ctx context.Context) ([]item.CategoryAggregate, error) {
	return s.itemRepo.CategorySummary(ctx)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/outbox"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/domain/sale"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/platform/metrics"
)

// TxManager runs a function inside one database transaction
type TxManager interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// StockServiceImpl implements the StockService interface. All Record
// operations follow the same shape: lock affected items in ascending ID
// order, validate against current state, apply the mutation, and write
// the aggregate plus one outbox row per ledger transaction, all inside
// a single database transaction.
type StockServiceImpl struct {
	logger       *slog.Logger
	txManager    TxManager
	itemRepo     item.Repository
	saleRepo     sale.Repository
	purchaseRepo purchase.Repository
	outboxRepo   outbox.Repository
}

// NewStockService creates a new stock service
func NewStockService(
	logger *slog.Logger,
	txManager TxManager,
	itemRepo item.Repository,
	saleRepo sale.Repository,
	purchaseRepo purchase.Repository,
	outboxRepo outbox.Repository,
) StockService {
	return &StockServiceImpl{
		logger:       logger,
		txManager:    txManager,
		itemRepo:     itemRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		outboxRepo:   outboxRepo,
	}
}

// lockItems acquires row locks for the given IDs in ascending order and
// returns the locked items keyed by ID. Sorted acquisition keeps two
// concurrent multi-line operations from deadlocking on each other.
func lockItems(ctx context.Context, repo item.Repository, ids []uuid.UUID) (map[uuid.UUID]*item.Item, error) {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	sort.Slice(unique, func(i, j int) bool {
		return unique[i].String() < unique[j].String()
	})

	locked := make(map[uuid.UUID]*item.Item, len(unique))
	for _, id := range unique {
		itm, err := repo.LockForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		locked[id] = itm
	}
	return locked, nil
}

// RecordSale validates every line against locked stock, deducts the
// quantities, and persists the sale together with one SALE ledger
// transaction per line. The whole operation commits or rolls back as
// one unit.
func (s *StockServiceImpl) RecordSale(ctx context.Context, input RecordSaleInput) (*sale.Sale, error) {
	if len(input.Lines) == 0 {
		return nil, sale.ErrNoLines
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, sale.ErrInvalidQuantity
		}
		if line.UnitPrice != nil && *line.UnitPrice < 0 {
			return nil, sale.ErrInvalidPrice
		}
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var committed *sale.Sale
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txItemRepo := s.itemRepo.WithTx(tx)
		txSaleRepo := s.saleRepo.WithTx(tx)
		txOutboxRepo := s.outboxRepo.WithTx(tx)

		ids := make([]uuid.UUID, len(input.Lines))
		for i, line := range input.Lines {
			ids[i] = line.ItemID
		}
		locked, err := lockItems(ctx, txItemRepo, ids)
		if err != nil {
			return err
		}

		// Deduct per line against the locked items, then price the lines
		saleLines := make([]sale.Line, len(input.Lines))
		quantityAfter := make([]int64, len(input.Lines))
		for i, line := range input.Lines {
			itm := locked[line.ItemID]

			unitPrice := itm.UnitPrice
			if line.UnitPrice != nil {
				unitPrice = *line.UnitPrice
			}

			if err := itm.Deduct(line.Quantity); err != nil {
				return err
			}
			quantityAfter[i] = itm.Quantity

			saleLines[i] = sale.Line{
				ItemID:    itm.ID,
				ItemName:  itm.Name,
				Quantity:  line.Quantity,
				UnitPrice: unitPrice,
			}
		}

		newSale, err := sale.NewSale(input.CustomerName, input.PaymentMethod, input.Reference, input.Notes, occurredAt, saleLines)
		if err != nil {
			return err
		}

		if err := txSaleRepo.Create(ctx, newSale); err != nil {
			return err
		}

		for _, itm := range locked {
			if err := txItemRepo.Update(ctx, itm); err != nil {
				return err
			}
		}

		for i, line := range newSale.Lines {
			itm := locked[line.ItemID]
			txn := ledger.NewTransaction(shared.TransactionKindSale, line.ItemID, line.ItemName, -line.Quantity, line.UnitPrice, newSale.Reference, newSale.Notes, newSale.OccurredAt)
			if err := s.enqueueStockEvent(ctx, txOutboxRepo, txn, quantityAfter[i], itm.ReorderLevel); err != nil {
				return err
			}
		}

		committed = newSale
		return nil
	})
	if err != nil {
		metrics.TransactionsRejected.WithLabelValues(string(shared.TransactionKindSale), rejectionReason(err)).Inc()
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(shared.TransactionKindSale)).Add(float64(len(committed.Lines)))
	s.logger.Info("Sale recorded",
		"sale_id", committed.ID.String(),
		"lines", len(committed.Lines),
		"total_amount", committed.TotalAmount,
	)
	return committed, nil
}

// RecordPurchase receives stock for every line and persists the purchase
// together with one PURCHASE ledger transaction per line
func (s *StockServiceImpl) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*purchase.Purchase, error) {
	if len(input.Lines) == 0 {
		return nil, purchase.ErrNoLines
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, purchase.ErrInvalidQuantity
		}
		if line.CostPrice != nil && *line.CostPrice < 0 {
			return nil, purchase.ErrInvalidPrice
		}
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var committed *purchase.Purchase
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txItemRepo := s.itemRepo.WithTx(tx)
		txPurchaseRepo := s.purchaseRepo.WithTx(tx)
		txOutboxRepo := s.outboxRepo.WithTx(tx)

		ids := make([]uuid.UUID, len(input.Lines))
		for i, line := range input.Lines {
			ids[i] = line.ItemID
		}
		locked, err := lockItems(ctx, txItemRepo, ids)
		if err != nil {
			return err
		}

		purchaseLines := make([]purchase.Line, len(input.Lines))
		quantityAfter := make([]int64, len(input.Lines))
		for i, line := range input.Lines {
			itm := locked[line.ItemID]

			costPrice := itm.CostPrice
			if line.CostPrice != nil {
				costPrice = *line.CostPrice
			}

			if err := itm.Receive(line.Quantity); err != nil {
				return err
			}
			quantityAfter[i] = itm.Quantity

			purchaseLines[i] = purchase.Line{
				ItemID:    itm.ID,
				ItemName:  itm.Name,
				Quantity:  line.Quantity,
				CostPrice: costPrice,
			}
		}

		newPurchase, err := purchase.NewPurchase(input.SupplierName, input.Reference, input.Notes, occurredAt, purchaseLines)
		if err != nil {
			return err
		}

		if err := txPurchaseRepo.Create(ctx, newPurchase); err != nil {
			return err
		}

		for _, itm := range locked {
			if err := txItemRepo.Update(ctx, itm); err != nil {
				return err
			}
		}

		for i, line := range newPurchase.Lines {
			itm := locked[line.ItemID]
			txn := ledger.NewTransaction(shared.TransactionKindPurchase, line.ItemID, line.ItemName, line.Quantity, line.CostPrice, newPurchase.Reference, newPurchase.Notes, newPurchase.OccurredAt)
			if err := s.enqueueStockEvent(ctx, txOutboxRepo, txn, quantityAfter[i], itm.ReorderLevel); err != nil {
				return err
			}
		}

		committed = newPurchase
		return nil
	})
	if err != nil {
		metrics.TransactionsRejected.WithLabelValues(string(shared.TransactionKindPurchase), rejectionReason(err)).Inc()
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(shared.TransactionKindPurchase)).Add(float64(len(committed.Lines)))
	s.logger.Info("Purchase recorded",
		"purchase_id", committed.ID.String(),
		"lines", len(committed.Lines),
		"total_amount", committed.TotalAmount,
	)
	return committed, nil
}

// RecordAdjustment applies a signed manual correction to one item and
// writes the matching ADJUSTMENT ledger transaction. The transaction is
// valued at the item's current selling price.
func (s *StockServiceImpl) RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*ledger.Transaction, error) {
	if input.QuantityDelta == 0 {
		return nil, item.ErrZeroAdjustment
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	var committed *ledger.Transaction
	err := s.txManager.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txItemRepo := s.itemRepo.WithTx(tx)
		txOutboxRepo := s.outboxRepo.WithTx(tx)

		itm, err := txItemRepo.LockForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}

		if err := itm.Adjust(input.QuantityDelta); err != nil {
			return err
		}

		if err := txItemRepo.Update(ctx, itm); err != nil {
			return err
		}

		txn := ledger.NewTransaction(shared.TransactionKindAdjustment, itm.ID, itm.Name, input.QuantityDelta, itm.UnitPrice, input.Reference, input.Notes, occurredAt)
		if err := s.enqueueStockEvent(ctx, txOutboxRepo, txn, itm.Quantity, itm.ReorderLevel); err != nil {
			return err
		}

		committed = txn
		return nil
	})
	if err != nil {
		metrics.TransactionsRejected.WithLabelValues(string(shared.TransactionKindAdjustment), rejectionReason(err)).Inc()
		return nil, err
	}

	metrics.TransactionsRecorded.WithLabelValues(string(shared.TransactionKindAdjustment)).Inc()
	s.logger.Info("Adjustment recorded",
		"transaction_id", committed.TransactionID.String(),
		"item_id", committed.ItemID.String(),
		"quantity_delta", committed.QuantityDelta,
	)
	return committed, nil
}

// enqueueStockEvent writes one outbox row for the given ledger transaction
func (s *StockServiceImpl) enqueueStockEvent(ctx context.Context, repo outbox.Repository, txn *ledger.Transaction, quantityAfter, reorderLevel int64) error {
	event := txn.StockEvent(quantityAfter, reorderLevel)
	message, err := outbox.NewMessage(event)
	if err != nil {
		return err
	}
	return repo.Create(ctx, message)
}

// GetSaleByID retrieves a sale with its lines
func (s *StockServiceImpl) GetSaleByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

// ListSales returns sales that occurred within [from, to]
func (s *StockServiceImpl) ListSales(ctx context.Context, from, to time.Time) ([]*sale.Sale, error) {
	return s.saleRepo.ListByTimeRange(ctx, from, to)
}

// GetPurchaseByID retrieves a purchase with its lines
func (s *StockServiceImpl) GetPurchaseByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	return s.purchaseRepo.GetByID(ctx, id)
}

// ListPurchases returns purchases that occurred within [from, to]
func (s *StockServiceImpl) ListPurchases(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error) {
	return s.purchaseRepo.ListByTimeRange(ctx, from, to)
}

// rejectionReason maps engine errors onto a bounded metric label set
func rejectionReason(err error) string {
	var (
		insufficientErr item.ErrInsufficientStock
		negativeErr     item.ErrNegativeInventory
		notFoundErr     item.ErrItemNotFound
		concurrentErr   item.ErrConcurrentModification
	)
	switch {
	case errors.As(err, &insufficientErr):
		return "insufficient_stock"
	case errors.As(err, &negativeErr):
		return "negative_inventory"
	case errors.As(err, &notFoundErr):
		return "item_not_found"
	case errors.As(err, &concurrentErr):
		return "concurrent_modification"
	default:
		return "other"
	}
}

package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/shared"
)

// summaryBatchSize bounds one ledger fetch while aggregating a range
const summaryBatchSize = 1000

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	ledgerRepo ledger.Repository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo ledger.Repository) LedgerService {
	return &LedgerServiceImpl{
		ledgerRepo: ledgerRepo,
	}
}

// ListTransactions returns paginated transactions within [from, to],
// optionally filtered by kind, plus the total count
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, from, to time.Time, kind shared.TransactionKind, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	transactions, err := s.ledgerRepo.GetByTimeRange(ctx, from, to, kind, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByTimeRange(ctx, from, to, kind)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// ItemHistory returns paginated transactions for one item plus the total count
func (s *LedgerServiceImpl) ItemHistory(ctx context.Context, itemID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	transactions, err := s.ledgerRepo.GetByItemID(ctx, itemID, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.CountByItemID(ctx, itemID)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// forEachInRange streams every transaction in [from, to] of the given kind
// through fn, batching the underlying fetches
func (s *LedgerServiceImpl) forEachInRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind, fn func(*ledger.Transaction)) error {
	offset := 0
	for {
		batch, err := s.ledgerRepo.GetByTimeRange(ctx, from, to, kind, summaryBatchSize, offset)
		if err != nil {
			return err
		}
		for _, txn := range batch {
			fn(txn)
		}
		if len(batch) < summaryBatchSize {
			return nil
		}
		offset += len(batch)
	}
}

// Summary partitions the range's transactions by kind. The net amount is
// sales revenue minus purchase spend; adjustments carry quantity but no
// cash flow, so they only contribute counts.
func (s *LedgerServiceImpl) Summary(ctx context.Context, from, to time.Time) (*LedgerSummary, error) {
	summary := &LedgerSummary{From: from, To: to}

	err := s.forEachInRange(ctx, from, to, "", func(txn *ledger.Transaction) {
		switch txn.Kind {
		case shared.TransactionKindSale:
			summary.SaleCount++
			summary.TotalSales += txn.TotalAmount
		case shared.TransactionKindPurchase:
			summary.PurchaseCount++
			summary.TotalPurchases += txn.TotalAmount
		case shared.TransactionKindAdjustment:
			summary.AdjustmentCount++
			summary.AdjustmentQuantity += txn.QuantityDelta
		}
	})
	if err != nil {
		return nil, err
	}

	summary.NetAmount = summary.TotalSales - summary.TotalPurchases
	return summary, nil
}

// DailySales groups the range's SALE transactions by local calendar date
func (s *LedgerServiceImpl) DailySales(ctx context.Context, from, to time.Time) ([]DailySales, error) {
	byDate := make(map[string]*DailySales)

	err := s.forEachInRange(ctx, from, to, shared.TransactionKindSale, func(txn *ledger.Transaction) {
		date := txn.OccurredAt.Local().Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &DailySales{Date: date}
			byDate[date] = day
		}

		sold := txn.QuantityDelta
		if sold < 0 {
			sold = -sold
		}
		day.TotalAmount += txn.TotalAmount
		day.QuantitySold += sold
		day.TransactionCount++
	})
	if err != nil {
		return nil, err
	}

	days := make([]DailySales, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	return days, nil
}

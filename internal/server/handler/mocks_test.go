package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/purchase"
	"github.com/inventory-ledger/internal/domain/sale"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/server/service"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.Default()
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) CreateItem(ctx context.Context, name, description, category, sku string, unitPrice, costPrice, quantity, reorderLevel int64) (*item.Item, error) {
	args := m.Called(ctx, name, description, category, sku, unitPrice, costPrice, quantity, reorderLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) GetItemByID(ctx context.Context, id uuid.UUID) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) ListItems(ctx context.Context, search string) ([]*item.Item, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*item.Item), args.Error(1)
}

func (m *MockItemService) UpdateItem(ctx context.Context, id uuid.UUID, name, description, category, sku string, unitPrice, costPrice, reorderLevel int64) (*item.Item, error) {
	args := m.Called(ctx, id, name, description, category, sku, unitPrice, costPrice, reorderLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemService) ListLowStock(ctx context.Context) ([]*item.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*item.Item), args.Error(1)
}

func (m *MockItemService) CategorySummary(ctx context.Context) ([]item.CategoryAggregate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]item.CategoryAggregate), args.Error(1)
}

type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) RecordSale(ctx context.Context, input service.RecordSaleInput) (*sale.Sale, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockStockService) RecordPurchase(ctx context.Context, input service.RecordPurchaseInput) (*purchase.Purchase, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.Purchase), args.Error(1)
}

func (m *MockStockService) RecordAdjustment(ctx context.Context, input service.RecordAdjustmentInput) (*ledger.Transaction, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockStockService) GetSaleByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockStockService) ListSales(ctx context.Context, from, to time.Time) ([]*sale.Sale, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sale.Sale), args.Error(1)
}

func (m *MockStockService) GetPurchaseByID(ctx context.Context, id uuid.UUID) (*purchase.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*purchase.Purchase), args.Error(1)
}

func (m *MockStockService) ListPurchases(ctx context.Context, from, to time.Time) ([]*purchase.Purchase, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*purchase.Purchase), args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) ListTransactions(ctx context.Context, from, to time.Time, kind shared.TransactionKind, page, perPage int) ([]*ledger.Transaction, int64, error) {
	args := m.Called(ctx, from, to, kind, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) ItemHistory(ctx context.Context, itemID uuid.UUID, page, perPage int) ([]*ledger.Transaction, int64, error) {
	args := m.Called(ctx, itemID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerService) Summary(ctx context.Context, from, to time.Time) (*service.LedgerSummary, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LedgerSummary), args.Error(1)
}

func (m *MockLedgerService) DailySales(ctx context.Context, from, to time.Time) ([]service.DailySales, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.DailySales), args.Error(1)
}

var _ service.ItemService = (*MockItemService)(nil)
var _ service.StockService = (*MockStockService)(nil)
var _ service.LedgerService = (*MockLedgerService)(nil)

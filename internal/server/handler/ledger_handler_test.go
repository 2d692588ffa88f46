package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inventory-ledger/internal/domain/item"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/inventory-ledger/internal/server/service"
)

func TestLedgerHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		mockItems := new(MockItemService)
		h := NewLedgerHandler(testLogger(), mockLedger, mockItems)

		transactions := []*ledger.Transaction{
			ledger.NewTransaction(shared.TransactionKindSale, uuid.New(), "Widget", -2, 500, "", "", time.Now()),
		}
		mockLedger.On("ListTransactions", mock.Anything, mock.Anything, mock.Anything,
			shared.TransactionKindSale, 1, 10).Return(transactions, int64(1), nil)

		router := setupTestRouter()
		router.GET("/ledger", h.List)

		req, _ := http.NewRequest(http.MethodGet, "/ledger?kind=SALE", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		require.NotNil(t, response.Meta)
		assert.Equal(t, 1, response.Meta.TotalItems)
		assert.Equal(t, 1, response.Meta.Page)

		responseBody := decodeData[[]TransactionResponse](t, rr.Body.Bytes())
		require.Len(t, responseBody, 1)
		assert.Equal(t, "SALE", responseBody[0].Kind)

		mockLedger.AssertExpectations(t)
	})

	t.Run("InvalidKind", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		h := NewLedgerHandler(testLogger(), mockLedger, new(MockItemService))

		router := setupTestRouter()
		router.GET("/ledger", h.List)

		req, _ := http.NewRequest(http.MethodGet, "/ledger?kind=REFUND", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockLedger.AssertExpectations(t)
	})

	t.Run("InvalidPagination", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		h := NewLedgerHandler(testLogger(), mockLedger, new(MockItemService))

		router := setupTestRouter()
		router.GET("/ledger", h.List)

		req, _ := http.NewRequest(http.MethodGet, "/ledger?per_page=500", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLedgerHandler_ItemHistory(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		mockItems := new(MockItemService)
		h := NewLedgerHandler(testLogger(), mockLedger, mockItems)

		itm, err := item.NewItem("Widget", "", "general", "WID-1", 500, 300, 10, 2)
		require.NoError(t, err)

		transactions := []*ledger.Transaction{
			ledger.NewTransaction(shared.TransactionKindPurchase, itm.ID, "Widget", 10, 300, "", "", time.Now()),
		}
		mockItems.On("GetItemByID", mock.Anything, itm.ID).Return(itm, nil)
		mockLedger.On("ItemHistory", mock.Anything, itm.ID, 1, 10).Return(transactions, int64(1), nil)

		router := setupTestRouter()
		router.GET("/items/:id/ledger", h.ItemHistory)

		req, _ := http.NewRequest(http.MethodGet, "/items/"+itm.ID.String()+"/ledger", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		responseBody := decodeData[[]TransactionResponse](t, rr.Body.Bytes())
		require.Len(t, responseBody, 1)
		assert.Equal(t, "PURCHASE", responseBody[0].Kind)
	})

	t.Run("ItemNotFound", func(t *testing.T) {
		mockLedger := new(MockLedgerService)
		mockItems := new(MockItemService)
		h := NewLedgerHandler(testLogger(), mockLedger, mockItems)

		id := uuid.New()
		mockItems.On("GetItemByID", mock.Anything, id).Return(nil, item.ErrItemNotFound{ItemID: id})

		router := setupTestRouter()
		router.GET("/items/:id/ledger", h.ItemHistory)

		req, _ := http.NewRequest(http.MethodGet, "/items/"+id.String()+"/ledger", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		mockLedger.AssertNotCalled(t, "ItemHistory", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerHandler_Summary(t *testing.T) {
	mockLedger := new(MockLedgerService)
	h := NewLedgerHandler(testLogger(), mockLedger, new(MockItemService))

	summary := &service.LedgerSummary{
		TotalSales:     2200,
		TotalPurchases: 3000,
		NetAmount:      -800,
		SaleCount:      2,
		PurchaseCount:  1,
	}
	mockLedger.On("Summary", mock.Anything, mock.Anything, mock.Anything).Return(summary, nil)

	router := setupTestRouter()
	router.GET("/ledger/summary", h.Summary)

	req, _ := http.NewRequest(http.MethodGet, "/ledger/summary", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	responseBody := decodeData[service.LedgerSummary](t, rr.Body.Bytes())
	assert.Equal(t, int64(-800), responseBody.NetAmount)
	assert.Equal(t, int64(2), responseBody.SaleCount)
}

func TestLedgerHandler_DailySales(t *testing.T) {
	mockLedger := new(MockLedgerService)
	h := NewLedgerHandler(testLogger(), mockLedger, new(MockItemService))

	days := []service.DailySales{
		{Date: "2025-03-10", TotalAmount: 1500, QuantitySold: 5, TransactionCount: 2},
	}
	mockLedger.On("DailySales", mock.Anything, mock.Anything, mock.Anything).Return(days, nil)

	router := setupTestRouter()
	router.GET("/ledger/daily-sales", h.DailySales)

	req, _ := http.NewRequest(http.MethodGet, "/ledger/daily-sales", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	responseBody := decodeData[[]service.DailySales](t, rr.Body.Bytes())
	require.Len(t, responseBody, 1)
	assert.Equal(t, "2025-03-10", responseBody[0].Date)
}

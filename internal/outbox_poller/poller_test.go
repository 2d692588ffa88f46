package outbox_poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/inventory-ledger/internal/config"
	"github.com/inventory-ledger/internal/domain/ledger"
	"github.com/inventory-ledger/internal/domain/outbox"
	"github.com/inventory-ledger/internal/domain/shared"
)

type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Create(ctx context.Context, txn *ledger.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockLedgerRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepo) GetByItemID(ctx context.Context, itemID uuid.UUID, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, itemID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepo) CountByItemID(ctx context.Context, itemID uuid.UUID) (int64, error) {
	args := m.Called(ctx, itemID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepo) GetByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind, limit, offset int) ([]*ledger.Transaction, error) {
	args := m.Called(ctx, from, to, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Transaction), args.Error(1)
}

func (m *MockLedgerRepo) CountByTimeRange(ctx context.Context, from, to time.Time, kind shared.TransactionKind) (int64, error) {
	args := m.Called(ctx, from, to, kind)
	return args.Get(0).(int64), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingMessage(t *testing.T, id int64, attempts int) (*outbox.Message, *shared.StockEvent) {
	t.Helper()

	txn := ledger.NewTransaction(shared.TransactionKindSale, uuid.New(), "Widget", -2, 500, "", "", time.Now())
	event := txn.StockEvent(8, 3)
	message, err := outbox.NewMessage(event)
	require.NoError(t, err)
	message.ID = id
	message.Attempts = attempts
	return message, event
}

func TestStockEventPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("appends ledger transaction and publishes event", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		ledgerRepo := &MockLedgerRepo{}
		producer := &MockProducer{}
		publisher := NewStockEventPublisher(outboxRepo, ledgerRepo, producer, testLogger())

		message, event := pendingMessage(t, 1, 0)

		ledgerRepo.On("GetByTransactionID", ctx, event.TransactionID).
			Return(nil, ledger.ErrTransactionNotFound{TransactionID: event.TransactionID}).Once()
		ledgerRepo.On("Create", ctx, mock.MatchedBy(func(txn *ledger.Transaction) bool {
			return txn.TransactionID == event.TransactionID && txn.QuantityDelta == -2
		})).Return(nil).Once()
		producer.On("Publish", ctx, event.ItemID.String(), mock.Anything).Return(nil).Once()
		outboxRepo.On("UpdateStatus", ctx, int64(1), shared.OutboxStatusProcessed).Return(nil).Once()

		err := publisher.Publish(ctx, message)

		assert.NoError(t, err)
		outboxRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("replay skips the ledger append", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		ledgerRepo := &MockLedgerRepo{}
		producer := &MockProducer{}
		publisher := NewStockEventPublisher(outboxRepo, ledgerRepo, producer, testLogger())

		message, event := pendingMessage(t, 2, 1)
		existing := ledger.FromStockEvent(event)

		ledgerRepo.On("GetByTransactionID", ctx, event.TransactionID).Return(existing, nil).Once()
		producer.On("Publish", ctx, event.ItemID.String(), mock.Anything).Return(nil).Once()
		outboxRepo.On("UpdateStatus", ctx, int64(2), shared.OutboxStatusProcessed).Return(nil).Once()

		err := publisher.Publish(ctx, message)

		assert.NoError(t, err)
		ledgerRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("corrupt payload is parked immediately", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		ledgerRepo := &MockLedgerRepo{}
		producer := &MockProducer{}
		publisher := NewStockEventPublisher(outboxRepo, ledgerRepo, producer, testLogger())

		message := &outbox.Message{
			ID:            3,
			TransactionID: uuid.New(),
			Payload:       []byte(`{"not`),
			Status:        shared.OutboxStatusPending,
		}
		outboxRepo.On("UpdateStatus", ctx, int64(3), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := publisher.Publish(ctx, message)

		assert.Error(t, err)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
		outboxRepo.AssertExpectations(t)
	})

	t.Run("kafka failure leaves the message pending", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		ledgerRepo := &MockLedgerRepo{}
		producer := &MockProducer{}
		publisher := NewStockEventPublisher(outboxRepo, ledgerRepo, producer, testLogger())

		message, event := pendingMessage(t, 4, 0)

		ledgerRepo.On("GetByTransactionID", ctx, event.TransactionID).
			Return(nil, ledger.ErrTransactionNotFound{TransactionID: event.TransactionID}).Once()
		ledgerRepo.On("Create", ctx, mock.Anything).Return(nil).Once()
		producer.On("Publish", ctx, event.ItemID.String(), mock.Anything).Return(errors.New("broker unreachable")).Once()

		err := publisher.Publish(ctx, message)

		assert.Error(t, err)
		outboxRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	cfg := &config.OutboxConfig{
		PollingInterval:  time.Second,
		BatchSize:        10,
		MaxRetryAttempts: 3,
	}
	ctx := context.Background()

	t.Run("successful processing of pending messages", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockPublisher{}
		poller := NewPoller(cfg, outboxRepo, publisher, testLogger())

		message1, _ := pendingMessage(t, 1, 0)
		message2, _ := pendingMessage(t, 2, 0)

		outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
		publisher.On("Publish", mock.Anything, message1).Return(nil).Once()
		publisher.On("Publish", mock.Anything, message2).Return(nil).Once()

		err := poller.processPendingMessages(ctx)

		assert.NoError(t, err)
		outboxRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("error getting pending messages", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockPublisher{}
		poller := NewPoller(cfg, outboxRepo, publisher, testLogger())

		outboxRepo.On("GetPending", mock.Anything, 10).Return(nil, errors.New("db error")).Once()

		err := poller.processPendingMessages(ctx)

		assert.ErrorContains(t, err, "failed to get pending outbox messages")
	})

	t.Run("no pending messages", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockPublisher{}
		poller := NewPoller(cfg, outboxRepo, publisher, testLogger())

		outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{}, nil).Once()

		err := poller.processPendingMessages(ctx)

		assert.NoError(t, err)
		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("failed message increments attempts and processing continues", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockPublisher{}
		poller := NewPoller(cfg, outboxRepo, publisher, testLogger())

		message1, _ := pendingMessage(t, 1, 0)
		message2, _ := pendingMessage(t, 2, 0)

		outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message1, message2}, nil).Once()
		publisher.On("Publish", mock.Anything, message1).Return(errors.New("publish error")).Once()
		outboxRepo.On("IncrementAttempts", mock.Anything, int64(1)).Return(nil).Once()
		publisher.On("Publish", mock.Anything, message2).Return(nil).Once()

		err := poller.processPendingMessages(ctx)

		assert.NoError(t, err)
		outboxRepo.AssertExpectations(t)
		publisher.AssertExpectations(t)
	})

	t.Run("max retry attempts reached marks message failed", func(t *testing.T) {
		outboxRepo := &MockOutboxRepo{}
		publisher := &MockPublisher{}
		poller := NewPoller(cfg, outboxRepo, publisher, testLogger())

		message, _ := pendingMessage(t, 3, 2)

		outboxRepo.On("GetPending", mock.Anything, 10).Return([]*outbox.Message{message}, nil).Once()
		publisher.On("Publish", mock.Anything, message).Return(errors.New("publish error")).Once()
		outboxRepo.On("IncrementAttempts", mock.Anything, int64(3)).Return(nil).Once()
		outboxRepo.On("UpdateStatus", mock.Anything, int64(3), shared.OutboxStatusFailedToPublish).Return(nil).Once()

		err := poller.processPendingMessages(ctx)

		assert.NoError(t, err)
		outboxRepo.AssertExpectations(t)
	})
}

func TestPoller_StartStopsOnCancel(t *testing.T) {
	outboxRepo := &MockOutboxRepo{}
	publisher := &MockPublisher{}
	poller := NewPoller(&config.OutboxConfig{
		PollingInterval:  10 * time.Millisecond,
		BatchSize:        5,
		MaxRetryAttempts: 3,
	}, outboxRepo, publisher, testLogger())

	outboxRepo.On("GetPending", mock.Anything, 5).Return([]*outbox.Message{}, nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after context cancellation")
	}
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/inventory-ledger/internal/domain/outbox"
	"github.com/inventory-ledger/internal/domain/shared"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRepository_Create(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}

	message := &outbox.Message{
		TransactionID: uuid.New(),
		ItemID:        uuid.New(),
		Payload:       json.RawMessage(`{"kind":"SALE"}`),
		Status:        shared.OutboxStatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}

	query := `
		INSERT INTO stock_outbox \(transaction_id, item_id, payload, status, attempts, created_at\)
		VALUES \(\$1, \$2, \$3, \$4, \$5, \$6\)
		RETURNING id
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id"}).AddRow(int64(42))
		mock.ExpectQuery(query).
			WithArgs(message.TransactionID, message.ItemID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnRows(rows)

		err := repo.Create(ctx, message)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), message.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure", func(t *testing.T) {
		expectedErr := errors.New("db error")
		mock.ExpectQuery(query).
			WithArgs(message.TransactionID, message.ItemID, message.Payload, message.Status, message.Attempts, message.CreatedAt).
			WillReturnError(expectedErr)

		err := repo.Create(ctx, message)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox message")
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetPending(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	now := time.Now()
	limit := 10

	expectedMessage := &outbox.Message{
		ID:            7,
		TransactionID: uuid.New(),
		ItemID:        uuid.New(),
		Payload:       json.RawMessage(`{"kind":"PURCHASE"}`),
		Status:        shared.OutboxStatusPending,
		Attempts:      1,
		CreatedAt:     now,
		LastAttemptAt: &now,
	}

	query := `
		SELECT id, transaction_id, item_id, payload, status, attempts, created_at, last_attempt_at
		FROM stock_outbox
		WHERE status = \$1
		ORDER BY created_at ASC
		LIMIT \$2
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "transaction_id", "item_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
			AddRow(expectedMessage.ID, expectedMessage.TransactionID, expectedMessage.ItemID, expectedMessage.Payload, expectedMessage.Status, expectedMessage.Attempts, expectedMessage.CreatedAt, expectedMessage.LastAttemptAt)
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, limit).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, limit)
		assert.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, expectedMessage, messages[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "transaction_id", "item_id", "payload", "status", "attempts", "created_at", "last_attempt_at"})
		mock.ExpectQuery(query).WithArgs(shared.OutboxStatusPending, limit).WillReturnRows(rows)

		messages, err := repo.GetPending(ctx, limit)
		assert.NoError(t, err)
		assert.Empty(t, messages)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	messageID := int64(7)

	query := `
		UPDATE stock_outbox
		SET status = \$1, last_attempt_at = \$2
		WHERE id = \$3
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), messageID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(ctx, messageID, shared.OutboxStatusProcessed)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(shared.OutboxStatusProcessed, pgxmock.AnyArg(), messageID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(ctx, messageID, shared.OutboxStatusProcessed)
		assert.Error(t, err)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.Equal(t, messageID, notFoundErr.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_IncrementAttempts(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	messageID := int64(7)

	query := `
		UPDATE stock_outbox
		SET attempts = attempts \+ 1, last_attempt_at = \$1
		WHERE id = \$2
	`

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), messageID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.IncrementAttempts(ctx, messageID)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(pgxmock.AnyArg(), messageID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.IncrementAttempts(ctx, messageID)
		assert.Error(t, err)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOutboxRepository_GetByTransactionID(t *testing.T) {
	ctx := context.Background()
	logger := newTestLogger()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := &OutboxRepository{querier: mock, logger: logger}
	transactionID := uuid.New()
	now := time.Now()

	expectedMessage := &outbox.Message{
		ID:            9,
		TransactionID: transactionID,
		ItemID:        uuid.New(),
		Payload:       json.RawMessage(`{"kind":"ADJUSTMENT"}`),
		Status:        shared.OutboxStatusProcessed,
		Attempts:      1,
		CreatedAt:     now,
		LastAttemptAt: &now,
	}

	query := `
		SELECT id, transaction_id, item_id, payload, status, attempts, created_at, last_attempt_at
		FROM stock_outbox
		WHERE transaction_id = \$1
	`

	t.Run("success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "transaction_id", "item_id", "payload", "status", "attempts", "created_at", "last_attempt_at"}).
			AddRow(expectedMessage.ID, expectedMessage.TransactionID, expectedMessage.ItemID, expectedMessage.Payload, expectedMessage.Status, expectedMessage.Attempts, expectedMessage.CreatedAt, expectedMessage.LastAttemptAt)
		mock.ExpectQuery(query).WithArgs(transactionID).WillReturnRows(rows)

		message, err := repo.GetByTransactionID(ctx, transactionID)
		assert.NoError(t, err)
		assert.Equal(t, expectedMessage, message)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).WithArgs(transactionID).WillReturnError(pgx.ErrNoRows)

		message, err := repo.GetByTransactionID(ctx, transactionID)
		assert.Error(t, err)
		assert.Nil(t, message)
		var notFoundErr outbox.ErrMessageNotFound
		assert.ErrorAs(t, err, &notFoundErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

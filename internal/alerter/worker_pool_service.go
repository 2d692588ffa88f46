package alerter

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/inventory-ledger/internal/domain/shared"
)

// WorkerPoolAlertService fans event evaluation out over a bounded
// worker pool
type WorkerPoolAlertService struct {
	baseService AlertService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolAlertService(
	baseService AlertService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolAlertService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolAlertService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// Evaluate submits the event to the worker pool and waits for the result
func (s *WorkerPoolAlertService) Evaluate(ctx context.Context, event *shared.StockEvent) error {
	resultChan := make(chan error, 1)

	transactionID := event.TransactionID.String()
	s.mu.Lock()
	s.results[transactionID] = resultChan
	s.mu.Unlock()

	// Copy the event to avoid data races with the caller
	eventCopy := *event

	err := s.pool.Submit(func() {
		err := s.baseService.Evaluate(ctx, &eventCopy)

		resultChan <- err

		s.mu.Lock()
		delete(s.results, transactionID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		s.mu.Lock()
		delete(s.results, transactionID)
		close(resultChan)
		s.mu.Unlock()

		s.logger.Error("Failed to submit stock event to worker pool",
			"transaction_id", transactionID,
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool
func (s *WorkerPoolAlertService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool
func (s *WorkerPoolAlertService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool
func (s *WorkerPoolAlertService) Capacity() int {
	return s.pool.Cap()
}

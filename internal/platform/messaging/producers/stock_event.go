package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inventory-ledger/internal/config"
	"github.com/segmentio/kafka-go"
)

// StockEventProducer publishes committed stock events to the stock events
// topic. Events are only ever published for transactions that already
// committed in the database, so consumers can trust every message they see.
type StockEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewStockEventProducer creates a stock event producer and ensures the topic exists
func NewStockEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*StockEventProducer, error) {
	if cfg.StockEventsTopic == "" {
		return nil, fmt.Errorf("kafka stock events topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for stock event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.StockEventsTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stock events topic %s exists: %w", cfg.StockEventsTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.StockEventsTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.StockEventsTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.StockEventsTopic, "count", len(messages))
			}
		},
	}

	return &StockEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.StockEventsTopic,
	}, nil
}

// Publish marshals the value to JSON and writes it keyed by the given key.
// Messages for the same item share a key so partition ordering holds per item.
func (p *StockEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for stock event producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish stock event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish stock event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published stock event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *StockEventProducer) Close() error {
	p.logger.Info("Closing stock event Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close stock event kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}

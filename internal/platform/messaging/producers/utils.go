package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const partitionReadRetries = 5

// createKafkaTopicIfNotExists makes sure a topic is present before a
// producer starts writing to it. Partition reads are retried because a
// freshly started broker can briefly refuse metadata requests.
func createKafkaTopicIfNotExists(conn *kafka.Conn, topic string, numPartitions, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	for attempt := 1; attempt <= partitionReadRetries; attempt++ {
		partitions, err = conn.ReadPartitions(topic)
		if err == nil {
			break
		}
		log.Warn("Failed to read partitions, retrying...", "topic", topic, "attempt", attempt, "error", err)
		time.Sleep(2 * time.Second)
	}

	if len(partitions) > 0 {
		if err != nil {
			log.Warn("Topic exists but the final partition read failed", "topic", topic, "error", err)
		} else {
			log.Info("Kafka topic already exists", "topic", topic)
		}
		return nil
	}

	log.Info("Kafka topic not found, creating it", "topic", topic, "last_read_error", err)

	cfg := kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if cfg.NumPartitions == 0 {
		cfg.NumPartitions = 1
	}
	if cfg.ReplicationFactor == 0 {
		cfg.ReplicationFactor = 1
	}

	if err := conn.CreateTopics(cfg); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topic, err)
	}

	log.Info("Created Kafka topic", "topic", topic)
	return nil
}

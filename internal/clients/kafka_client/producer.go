package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/models"
)

// Producer publishes analysis log records. Each Publish call is one Kafka
// transaction; calls are serialized because a producer holds at most one open
// transaction.
type Producer struct {
	producer *kafka.Producer
	topic    string
	mu       sync.Mutex
}

func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(ProducerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.InitTransactions(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("[KafkaClient] Failed to init transactions: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p, topic: topicOrDefault(cfg)}, nil
}

func (p *Producer) Close() error {
	slog.Info("[KafkaClient] Flushing Kafka producer before shutdown...")
	if remaining := p.producer.Flush(FLUSH_TIMEOUT); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
	slog.Info("[KafkaClient] Kafka producer shut down")
	return nil
}

// BuildMessages encodes records as JSON messages keyed by language code.
func BuildMessages(topic string, records []models.LogRecord) ([]*kafka.Message, error) {
	msgs := make([]*kafka.Message, 0, len(records))
	for _, rec := range records {
		jsonData, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("[KafkaClient] failed to marshal record: %w", err)
		}
		msgs = append(msgs, &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            []byte(rec.Language),
			Value:          jsonData,
		})
	}
	return msgs, nil
}

// Publish sends records in a single transaction.
func (p *Producer) Publish(ctx context.Context, records []models.LogRecord) error {
	msgs, err := BuildMessages(p.topic, records)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("[KafkaClient] failed to begin transaction: %w", err)
	}

	for _, msg := range msgs {
		for i := 0; i < MAX_RETRIES; i++ {
			err = p.producer.Produce(msg, nil)
			if err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			time.Sleep(RETRY_DELAY)
		}
		if err != nil {
			if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
				return fmt.Errorf("[KafkaClient] failed to abort transaction after produce error: %w", abortErr)
			}
			return err
		}
	}

	var commitErr error
	for i := 0; i < MAX_RETRIES; i++ {
		commitErr = p.producer.CommitTransaction(ctx)
		if commitErr == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to commit transaction, retrying...",
			slog.Int("attempt", i+1))
	}
	if commitErr != nil {
		if abortErr := p.producer.AbortTransaction(ctx); abortErr != nil {
			slog.Error("[KafkaClient] Failed to abort transaction after commit error",
				slog.String("error", abortErr.Error()))
		}
		return fmt.Errorf("[KafkaClient] failed to commit transaction after %d retries: %w", MAX_RETRIES, commitErr)
	}

	slog.Debug("[KafkaClient] Published analysis records transactionally",
		slog.String("topic", p.topic),
		slog.Int("records", len(records)))
	return nil
}

// Ping asks the broker for the topic metadata.
func (p *Producer) Ping(ctx context.Context) error {
	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if _, err := p.producer.GetMetadata(&p.topic, false, int(timeout.Milliseconds())); err != nil {
		return fmt.Errorf("[KafkaClient] failed to fetch metadata for %s: %w", p.topic, err)
	}
	return nil
}

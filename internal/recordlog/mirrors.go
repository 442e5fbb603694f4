package recordlog

import (
	"context"

	"github.com/spacesedan/sentilex/internal/clients"
	"github.com/spacesedan/sentilex/internal/clients/kafka_client"
	"github.com/spacesedan/sentilex/internal/db"
	"github.com/spacesedan/sentilex/internal/models"
)

type funcSink struct {
	name  string
	write func(ctx context.Context, records []models.LogRecord) error
	close func() error
}

func (s *funcSink) Name() string {
	return s.name
}

func (s *funcSink) Write(ctx context.Context, records []models.LogRecord) error {
	return s.write(ctx, records)
}

func (s *funcSink) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// NewValkeySink mirrors records into Valkey label counters and the recent list.
func NewValkeySink(c *clients.ValkeyClient) Sink {
	return &funcSink{name: "valkey", write: c.RecordAnalyses, close: c.Close}
}

// NewKafkaSink publishes every batch as one Kafka transaction.
func NewKafkaSink(p *kafka_client.Producer) Sink {
	return &funcSink{name: "kafka", write: p.Publish, close: p.Close}
}

// NewDynamoDBSink writes records into a DynamoDB table.
func NewDynamoDBSink(client db.BatchWriter, table string) Sink {
	return &funcSink{
		name: "dynamodb",
		write: func(ctx context.Context, records []models.LogRecord) error {
			return db.BatchInsertLogRecords(ctx, client, table, records)
		},
	}
}

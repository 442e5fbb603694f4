package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/spacesedan/sentilex/internal/utils"
)

const (
	SENTIMENT_LOG_TABLE_NAME = "SentimentLog"
	MAX_BATCH_WRITE_SIZE     = 25
	MAX_UNPROCESSED_RETRIES  = 3
)

// BatchWriter is the part of the DynamoDB client used for log writes.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type TableDescriber interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// ProbeTable checks that the log table exists and is reachable.
func ProbeTable(ctx context.Context, client TableDescriber, table string) error {
	out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: &table})
	if err != nil {
		return fmt.Errorf("[DynamoDB] failed to describe table %s: %w", table, err)
	}
	if out.Table != nil && out.Table.TableStatus != types.TableStatusActive {
		return fmt.Errorf("[DynamoDB] table %s is %s", table, out.Table.TableStatus)
	}
	return nil
}

// LogItem is the DynamoDB shape of an analysis log record. The id only exists
// because the table needs a partition key.
type LogItem struct {
	ID        string `dynamodbav:"id"`
	Timestamp string `dynamodbav:"timestamp"`
	CreatedAt int64  `dynamodbav:"created_at"`
	Input     string `dynamodbav:"input"`
	Sentiment string `dynamodbav:"sentiment"`
	ScoreText string `dynamodbav:"score_text"`
	Score     *int   `dynamodbav:"score,omitempty"`
	Language  string `dynamodbav:"language"`
}

func RecordToItem(rec models.LogRecord) (map[string]types.AttributeValue, error) {
	item := LogItem{
		ID:        uuid.NewString(),
		Timestamp: rec.Timestamp.Format(models.LogTimeLayout),
		CreatedAt: rec.Timestamp.Unix(),
		Input:     rec.Input,
		Sentiment: rec.Sentiment.String(),
		ScoreText: rec.Score.String(),
		Language:  rec.Language,
	}
	if v, ok := rec.Score.Value(); ok {
		item.Score = &v
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] failed to marshal log item: %w", err)
	}
	return av, nil
}

func BatchInsertLogRecords(ctx context.Context, client BatchWriter, table string, records []models.LogRecord) error {
	if table == "" {
		table = SENTIMENT_LOG_TABLE_NAME
	}

	for _, chunk := range utils.Chunk(records, MAX_BATCH_WRITE_SIZE) {
		select {
		case <-ctx.Done():
			slog.Warn("[DynamoDB] context canceled")
			return ctx.Err()
		default:
		}

		writeRequests := make([]types.WriteRequest, 0, len(chunk))
		for _, rec := range chunk {
			item, err := RecordToItem(rec)
			if err != nil {
				return err
			}
			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		out, err := client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				table: writeRequests,
			},
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write log records: %w", err)
		}

		retryCount := 0
		backoff := 500 * time.Millisecond
		for len(out.UnprocessedItems) > 0 && retryCount < MAX_UNPROCESSED_RETRIES {
			select {
			case <-ctx.Done():
				return fmt.Errorf("[DynamoDB] Gave up retrying unprocessed items: %w", ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2

			slog.Warn("[DynamoDB] Retrying unprocessed log items...",
				slog.Int("attempt", retryCount+1),
				slog.Int("remaining", len(out.UnprocessedItems[table])))

			out, err = client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: out.UnprocessedItems,
			})
			if err != nil {
				return fmt.Errorf("[DynamoDB] Retry error %w", err)
			}
			retryCount++
		}

		if remaining := len(out.UnprocessedItems[table]); remaining > 0 {
			return fmt.Errorf("[DynamoDB] %d log items were not written after %d retries", remaining, MAX_UNPROCESSED_RETRIES)
		}
	}

	slog.Debug("[DynamoDB] Stored log records",
		slog.Int("records", len(records)))
	return nil
}

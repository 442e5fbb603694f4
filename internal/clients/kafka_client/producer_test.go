package kafka_client

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/spacesedan/sentilex/config"
	"github.com/spacesedan/sentilex/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessages(t *testing.T) {
	records := []models.LogRecord{
		{Timestamp: time.Now(), Input: "bagus", Sentiment: models.LabelPositive, Score: models.ScoreOf(1), Language: "id"},
		{Timestamp: time.Now(), Input: "hello there", Sentiment: models.LabelUnknown, Score: models.NotApplicable, Language: "en"},
	}

	msgs, err := BuildMessages("analysis-log", records)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "analysis-log", *msgs[0].TopicPartition.Topic)
	assert.Equal(t, []byte("id"), msgs[0].Key)

	var decoded models.LogRecord
	require.NoError(t, json.Unmarshal(msgs[1].Value, &decoded))
	assert.Equal(t, models.LabelUnknown, decoded.Sentiment)
	assert.False(t, decoded.Score.Applicable())
}

func TestProducerConfigMap(t *testing.T) {
	cm := ProducerConfigMap(config.KafkaConfig{Broker: "kafka:9092", TransactionalID: "tx-1"})

	broker, err := cm.Get("bootstrap.servers", "")
	require.NoError(t, err)
	assert.Equal(t, "kafka:9092", broker)

	txID, err := cm.Get("transactional.id", "")
	require.NoError(t, err)
	assert.Equal(t, "tx-1", txID)

	assert.Equal(t, KAFKA_TOPIC_ANALYSIS_LOG, topicOrDefault(config.KafkaConfig{}))
}

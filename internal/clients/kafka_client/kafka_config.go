package kafka_client

import (
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/sentilex/config"
)

func topicOrDefault(cfg config.KafkaConfig) string {
	if cfg.Topic == "" {
		return KAFKA_TOPIC_ANALYSIS_LOG
	}
	return cfg.Topic
}

// ProducerConfigMap returns the transactional, idempotent producer settings.
func ProducerConfigMap(cfg config.KafkaConfig) *kafka.ConfigMap {
	return &kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
		"transactional.id":                      cfg.TransactionalID,
	}
}

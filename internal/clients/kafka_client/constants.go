package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_LOG = "analysis-log" // one message per appended analysis log record
)

const (
	MAX_RETRIES   = 3
	RETRY_DELAY   = 500 * time.Millisecond
	FLUSH_TIMEOUT = 5000 // milliseconds
)

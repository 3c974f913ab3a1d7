package kafka

import "time"

// ProducerMessage is an outbound record before conversion to kafka.Message.
type ProducerMessage struct {
	Topic     string
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Partition int
}

type BatchItemError struct {
	Index int
	Topic string
	Error error
}

// BatchPublishResult reports per-message outcomes. Index -1 in Errors marks
// a failure that applied to the whole batch.
type BatchPublishResult struct {
	Succeeded int
	Failed    int
	Errors    []BatchItemError
}

type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
	CleanupPolicy     string
	Configs           map[string]string
}

//Personal.AI order the ending

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/testutil"
	pkgerrors "github.com/turtacn/SakuraScope/pkg/errors"
)

type mockKafkaConn struct {
	created   []kafka.TopicConfig
	createErr error
	existing  map[string]bool
}

func (m *mockKafkaConn) CreateTopics(topics ...kafka.TopicConfig) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, topics...)
	return nil
}

func (m *mockKafkaConn) ReadPartitions(topics ...string) ([]kafka.Partition, error) {
	var out []kafka.Partition
	for _, t := range topics {
		if m.existing[t] {
			out = append(out, kafka.Partition{Topic: t})
		}
	}
	return out, nil
}

func (m *mockKafkaConn) Close() error { return nil }

func newTestTopicManager(conn ConnInterface) *TopicManager {
	return &TopicManager{conn: conn, logger: testutil.NewMockLogger()}
}

func TestTopicName(t *testing.T) {
	assert.Equal(t, "sakura.analysis.completed", TopicName("sakura", TopicAnalysisCompleted))
	assert.Equal(t, "sakura.product.flagged", TopicName("sakura.", TopicProductFlagged))
	assert.Equal(t, "product.flagged", TopicName("", TopicProductFlagged))
}

func TestDefaultTopics(t *testing.T) {
	topics := DefaultTopics("sakura")
	require.Len(t, topics, 2)
	assert.Equal(t, "sakura.analysis.completed", topics[0].Name)
	assert.Equal(t, "sakura.product.flagged", topics[1].Name)
}

func TestEventEnvelope_RoundTrip(t *testing.T) {
	payload := ProductFlaggedPayload{ASIN: "B000000001", SakuraScore: 0.8, Reason: "suspicious", FlaggedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	env, err := NewEventEnvelope(EventProductFlagged, "sakurascope", payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, "v1", env.SchemaVersion)

	msg, err := env.ToMessage("sakura.product.flagged", payload.ASIN)
	require.NoError(t, err)
	assert.Equal(t, "B000000001", string(msg.Key))
	assert.Equal(t, EventProductFlagged, msg.Headers["event_type"])
	assert.Equal(t, "sakurascope", msg.Headers["source_service"])

	var decoded EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, env.EventID, decoded.EventID)

	var got ProductFlaggedPayload
	require.NoError(t, json.Unmarshal(decoded.Payload, &got))
	assert.Equal(t, payload.ASIN, got.ASIN)
	assert.Equal(t, payload.Reason, got.Reason)
	assert.True(t, payload.FlaggedAt.Equal(got.FlaggedAt))
}

func TestEventEnvelope_Errors(t *testing.T) {
	_, err := NewEventEnvelope("x", "s", make(chan int))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func TestTopicManager_CreateTopic(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTestTopicManager(conn)

	err := m.CreateTopic(context.Background(), TopicConfig{
		Name: "sakura.product.flagged", NumPartitions: 3, ReplicationFactor: 1,
		RetentionMs: 1000, CleanupPolicy: "delete",
	})
	require.NoError(t, err)
	require.Len(t, conn.created, 1)
	assert.Equal(t, "sakura.product.flagged", conn.created[0].Topic)
	assert.Len(t, conn.created[0].ConfigEntries, 2)
}

func TestTopicManager_CreateTopic_Validation(t *testing.T) {
	m := newTestTopicManager(&mockKafkaConn{})
	ctx := context.Background()
	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{})))
	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{Name: "t", ReplicationFactor: 1})))
	assert.True(t, pkgerrors.IsValidation(m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1})))
}

func TestTopicManager_AlreadyExists(t *testing.T) {
	ctx := context.Background()

	m := newTestTopicManager(&mockKafkaConn{createErr: kafka.TopicAlreadyExists})
	assert.NoError(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = newTestTopicManager(&mockKafkaConn{createErr: errors.New("race"), existing: map[string]bool{"t": true}})
	assert.NoError(t, m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1}))

	m = newTestTopicManager(&mockKafkaConn{createErr: errors.New("denied")})
	err := m.CreateTopic(ctx, TopicConfig{Name: "t", NumPartitions: 1, ReplicationFactor: 1})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeMessageQueue))
}

func TestTopicManager_EnsureTopics(t *testing.T) {
	conn := &mockKafkaConn{}
	m := newTestTopicManager(conn)

	require.NoError(t, m.EnsureTopics(context.Background(), DefaultTopics("sakura")))
	assert.Len(t, conn.created, 2)
	assert.NoError(t, m.Close())
}

func TestNewTopicManager_NoBrokers(t *testing.T) {
	_, err := NewTopicManager(nil, nil)
	assert.True(t, pkgerrors.IsValidation(err))
}

//Personal.AI order the ending

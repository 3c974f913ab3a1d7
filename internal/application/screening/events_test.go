package screening

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SakuraScope/internal/domain/product"
	"github.com/turtacn/SakuraScope/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
)

type capturePublisher struct {
	mu   sync.Mutex
	msgs []*kafka.ProducerMessage
}

func (c *capturePublisher) Publish(_ context.Context, msg *kafka.ProducerMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func newKafkaEvents(t *testing.T) (*KafkaEvents, *capturePublisher) {
	t.Helper()
	pub := &capturePublisher{}
	ev := NewKafkaEvents(kafka.NewEventPublisher(pub, "sakurascope", "sakura"))
	ev.now = func() time.Time { return fixedNow }
	return ev, pub
}

func TestKafkaEvents_AnalysisCompleted(t *testing.T) {
	ev, pub := newKafkaEvents(t)
	analyzedAt := fixedNow.Add(-time.Minute)
	c := Candidate{
		Product:     product.MustNew("B0TEST0001", "Desk Lamp"),
		SakuraScore: 0.55,
		Suspicious:  true,
		Analysis: &sakura.AnalysisResult{
			ASIN:            "B0TEST0001",
			SakuraScore:     0.55,
			ConfidenceLevel: 0.3,
			Warnings:        []string{sakura.WarningInsufficientData},
			AnalyzedAt:      analyzedAt,
		},
	}

	require.NoError(t, ev.AnalysisCompleted(context.Background(), "run-9", c))
	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "sakura.analysis.completed", msg.Topic)
	assert.Equal(t, "B0TEST0001", string(msg.Key))

	var env kafka.EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	var payload kafka.AnalysisCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "run-9", payload.RunID)
	assert.Equal(t, "Desk Lamp", payload.Title)
	assert.Equal(t, "MEDIUM", payload.RiskLevel)
	assert.True(t, payload.Suspicious)
	assert.InDelta(t, 0.3, payload.ConfidenceLevel, 1e-12)
	assert.Equal(t, []string{sakura.WarningInsufficientData}, payload.Warnings)
	assert.True(t, analyzedAt.Equal(payload.AnalyzedAt))
}

func TestKafkaEvents_ProductFlaggedReason(t *testing.T) {
	tests := []struct {
		name       string
		suspicious bool
		want       string
	}{
		{"suspicious", true, FlagReasonSuspicious},
		{"low quality", false, FlagReasonLowQuality},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, pub := newKafkaEvents(t)
			c := Candidate{
				Product:     product.MustNew("B0TEST0002", "Kettle"),
				SakuraScore: 0.8,
				Suspicious:  tt.suspicious,
			}
			require.NoError(t, ev.ProductFlagged(context.Background(), "run-1", c))
			require.Len(t, pub.msgs, 1)
			assert.Equal(t, "sakura.product.flagged", pub.msgs[0].Topic)

			var env kafka.EventEnvelope
			require.NoError(t, json.Unmarshal(pub.msgs[0].Value, &env))
			assert.Equal(t, kafka.EventProductFlagged, env.EventType)
			var payload kafka.ProductFlaggedPayload
			require.NoError(t, json.Unmarshal(env.Payload, &payload))
			assert.Equal(t, tt.want, payload.Reason)
			assert.True(t, fixedNow.Equal(payload.FlaggedAt))
		})
	}
}

func TestScreen_WithKafkaEvents(t *testing.T) {
	ev, pub := newKafkaEvents(t)
	svc := newTestService(t, newDetector(t), WithEvents(ev))

	_, err := svc.Screen(context.Background(), "monitor", 0)
	require.NoError(t, err)

	topics := map[string]int{}
	for _, m := range pub.msgs {
		topics[m.Topic]++
	}
	assert.Equal(t, 4, topics["sakura.analysis.completed"])
	assert.Equal(t, 2, topics["sakura.product.flagged"])
}

//Personal.AI order the ending

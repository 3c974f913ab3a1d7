package screening

import (
	"context"
	"time"

	"github.com/turtacn/SakuraScope/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SakuraScope/internal/intelligence/sakura"
)

// Flag reasons carried by ProductFlagged events.
const (
	FlagReasonSuspicious = "suspicious"
	FlagReasonLowQuality = "below_quality_threshold"
)

// KafkaEvents adapts kafka.EventPublisher to EventPublisher.
type KafkaEvents struct {
	pub *kafka.EventPublisher
	now func() time.Time
}

func NewKafkaEvents(pub *kafka.EventPublisher) *KafkaEvents {
	return &KafkaEvents{pub: pub, now: time.Now}
}

func (k *KafkaEvents) AnalysisCompleted(ctx context.Context, runID string, c Candidate) error {
	payload := kafka.AnalysisCompletedPayload{
		RunID:       runID,
		ASIN:        c.Product.ASIN(),
		Title:       c.Product.Name(),
		SakuraScore: c.SakuraScore,
		RiskLevel:   sakura.ClassifyReportRisk(c.SakuraScore).String(),
		Suspicious:  c.Suspicious,
		AnalyzedAt:  k.now().UTC(),
	}
	if c.Analysis != nil {
		payload.ConfidenceLevel = c.Analysis.ConfidenceLevel
		payload.Warnings = c.Analysis.Warnings
		payload.AnalyzedAt = c.Analysis.AnalyzedAt
	}
	return k.pub.PublishAnalysisCompleted(ctx, payload)
}

func (k *KafkaEvents) ProductFlagged(ctx context.Context, runID string, c Candidate) error {
	reason := FlagReasonLowQuality
	if c.Suspicious {
		reason = FlagReasonSuspicious
	}
	return k.pub.PublishProductFlagged(ctx, kafka.ProductFlaggedPayload{
		RunID:       runID,
		ASIN:        c.Product.ASIN(),
		Title:       c.Product.Name(),
		SakuraScore: c.SakuraScore,
		Reason:      reason,
		FlaggedAt:   k.now().UTC(),
	})
}

//Personal.AI order the ending

package kafka

import (
	"context"

	"github.com/turtacn/SakuraScope/internal/infrastructure/monitoring/logging"
)

// MessagePublisher is the subset of Producer used by EventPublisher.
type MessagePublisher interface {
	Publish(ctx context.Context, msg *ProducerMessage) error
}

// PublishObserver receives one call per publish attempt.
type PublishObserver interface {
	ObservePublish(topic string, err error)
}

// EventPublisher wraps domain payloads in envelopes and publishes them to
// the prefixed event topics.
type EventPublisher struct {
	pub      MessagePublisher
	source   string
	prefix   string
	observer PublishObserver
	logger   logging.Logger
}

type PublisherOption func(*EventPublisher)

func WithPublishObserver(o PublishObserver) PublisherOption {
	return func(p *EventPublisher) { p.observer = o }
}

func WithPublisherLogger(l logging.Logger) PublisherOption {
	return func(p *EventPublisher) { p.logger = l }
}

func NewEventPublisher(pub MessagePublisher, source, topicPrefix string, opts ...PublisherOption) *EventPublisher {
	p := &EventPublisher{
		pub:    pub,
		source: source,
		prefix: topicPrefix,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("events")
	return p
}

func (p *EventPublisher) PublishAnalysisCompleted(ctx context.Context, payload AnalysisCompletedPayload) error {
	return p.publish(ctx, TopicAnalysisCompleted, EventAnalysisCompleted, payload.ASIN, payload)
}

func (p *EventPublisher) PublishProductFlagged(ctx context.Context, payload ProductFlaggedPayload) error {
	return p.publish(ctx, TopicProductFlagged, EventProductFlagged, payload.ASIN, payload)
}

func (p *EventPublisher) publish(ctx context.Context, suffix, eventType, key string, payload interface{}) error {
	topic := TopicName(p.prefix, suffix)
	env, err := NewEventEnvelope(eventType, p.source, payload)
	if err == nil {
		var msg *ProducerMessage
		if msg, err = env.ToMessage(topic, key); err == nil {
			err = p.pub.Publish(ctx, msg)
		}
	}
	if p.observer != nil {
		p.observer.ObservePublish(topic, err)
	}
	if err != nil {
		p.logger.Warn("event publish failed",
			logging.String("topic", topic),
			logging.ASIN(key),
			logging.Err(err))
		return err
	}
	return nil
}

//Personal.AI order the ending

package service

import (
	"context"

	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventForwarder ships relayed events to an external bus (NATS JetStream).
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

// NewConsumerService relays billing events from the in-process bus. forwarder may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	m *metrics.Metrics,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		metrics:    m,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks: nothing in the billing flow is retried.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	evt, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		cs.metrics.RecordBillingEvent("unknown", "invalid")
		return
	}

	cs.logger.Info("EVENTS", evt.EventType(), evt.Payload())

	if cs.forwarder == nil {
		cs.metrics.RecordBillingEvent(evt.EventType(), "logged")
		return
	}

	if err := cs.forwarder.Publish(ctx, evt); err != nil {
		cs.logger.Error("EVENTS", "Failed to forward event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
		cs.metrics.RecordBillingEvent(evt.EventType(), "failed")
		return
	}
	cs.metrics.RecordBillingEvent(evt.EventType(), "forwarded")
}

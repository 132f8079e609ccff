package service

import (
	"context"
	"time"

	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Billing event types
const (
	EventSubscriptionTrialStarted = "SUBSCRIPTION_TRIAL_STARTED"
	EventSubscriptionPlanChanged  = "SUBSCRIPTION_PLAN_CHANGED"
	EventSubscriptionCanceled     = "SUBSCRIPTION_CANCELED"
	EventSubscriptionSynced       = "SUBSCRIPTION_SYNCED"
	EventInvoiceRecorded          = "INVOICE_RECORDED"
	EventInvoicePaid              = "INVOICE_PAID"
)

// IEventPublisher is fire-and-forget: failures are logged, never returned,
// so a committed billing change is never reported as failed.
type IEventPublisher interface {
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

type eventPublisher struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewEventPublisher(publisher message.Publisher, topic string, log logger.ILogger) IEventPublisher {
	return &eventPublisher{
		publisher: publisher,
		topic:     topic,
		logger:    log,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	raw, err := events.Encode(events.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now(),
	})
	if err != nil {
		p.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{"type": eventType, "error": err.Error()})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(p.topic, msg); err != nil {
		p.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{"type": eventType, "error": err.Error()})
	}
}

// now is the service clock, replaced in tests.
var now = func() time.Time {
	return time.Now().UTC()
}

// Now reads the service clock. Handlers render derived fields with it so they
// agree with the decisions the services made.
func Now() time.Time {
	return now()
}

// SetClock swaps the service clock and returns a func restoring the previous one.
func SetClock(clock func() time.Time) (restore func()) {
	prev := now
	now = clock
	return func() { now = prev }
}

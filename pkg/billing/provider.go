// Package billing wraps the external payment provider used for paid plans.
package billing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotConfigured    = errors.New("billing: payment provider is not configured")
	ErrInvalidSignature = errors.New("billing: webhook signature verification failed")
)

// Provider abstracts customer and subscription management at the payment provider.
type Provider interface {
	CreateCustomer(ctx context.Context, tenantID, email string) (customerID string, err error)
	CreateSubscription(ctx context.Context, customerID, priceID string) (subscriptionID string, err error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	// ParseWebhook verifies the payload signature and decodes the events we act on.
	// Unhandled event types come back with both Invoice and Subscription nil.
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}

type WebhookEvent struct {
	ID           string
	Type         string
	Invoice      *InvoiceUpdate
	Subscription *SubscriptionUpdate
}

type InvoiceUpdate struct {
	ProviderID  string
	Number      string
	CustomerID  string
	Status      string
	AmountDue   decimal.Decimal
	AmountPaid  decimal.Decimal
	Created     time.Time
	DueDate     time.Time
	PeriodStart time.Time
	PeriodEnd   time.Time
	PaidAt      *time.Time
}

type SubscriptionUpdate struct {
	ProviderID        string
	CustomerID        string
	Status            string
	CancelAtPeriodEnd bool
	CanceledAt        *time.Time
}

// NoopProvider is used when no Stripe key is configured.
type NoopProvider struct{}

func NewNoopProvider() *NoopProvider {
	return &NoopProvider{}
}

func (NoopProvider) CreateCustomer(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (NoopProvider) CreateSubscription(context.Context, string, string) (string, error) {
	return "", ErrNotConfigured
}

// CancelSubscription succeeds so local cancellation still works without a provider.
func (NoopProvider) CancelSubscription(context.Context, string) error {
	return nil
}

func (NoopProvider) ParseWebhook([]byte, string) (*WebhookEvent, error) {
	return nil, ErrNotConfigured
}

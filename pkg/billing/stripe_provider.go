package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Stripe event types handled by the licensing backend.
const (
	EventInvoiceCreated       = "invoice.created"
	EventInvoiceFinalized     = "invoice.finalized"
	EventInvoicePaid          = "invoice.paid"
	EventInvoicePaymentFailed = "invoice.payment_failed"
	EventInvoiceVoided        = "invoice.voided"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	EventInvoiceUncollectible = "invoice.marked_uncollectible"
)

type StripeProvider struct {
	webhookSecret string
}

func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

func (p *StripeProvider) CreateCustomer(_ context.Context, tenantID, email string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Metadata: map[string]string{
			"tenant_id": tenantID,
		},
	}
	c, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create stripe customer: %w", err)
	}
	return c.ID, nil
}

func (p *StripeProvider) CreateSubscription(_ context.Context, customerID, priceID string) (string, error) {
	if priceID == "" {
		return "", fmt.Errorf("billing: plan has no stripe price")
	}
	params := &stripe.SubscriptionParams{
		Customer: stripe.String(customerID),
		Items: []*stripe.SubscriptionItemsParams{
			{Price: stripe.String(priceID)},
		},
	}
	sub, err := subscription.New(params)
	if err != nil {
		return "", fmt.Errorf("billing: create stripe subscription: %w", err)
	}
	return sub.ID, nil
}

func (p *StripeProvider) CancelSubscription(_ context.Context, subscriptionID string) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("billing: cancel stripe subscription: %w", err)
	}
	return nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil {
		return out, nil
	}

	switch string(event.Type) {
	case EventInvoiceCreated, EventInvoiceFinalized, EventInvoicePaid,
		EventInvoicePaymentFailed, EventInvoiceVoided, EventInvoiceUncollectible:
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return nil, fmt.Errorf("billing: parse invoice event: %w", err)
		}
		out.Invoice = invoiceUpdate(&inv)
	case EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("billing: parse subscription event: %w", err)
		}
		out.Subscription = subscriptionUpdate(&sub)
	}
	return out, nil
}

func invoiceUpdate(inv *stripe.Invoice) *InvoiceUpdate {
	u := &InvoiceUpdate{
		ProviderID:  inv.ID,
		Number:      inv.Number,
		Status:      string(inv.Status),
		AmountDue:   fromCents(inv.AmountDue),
		AmountPaid:  fromCents(inv.AmountPaid),
		Created:     unixTime(inv.Created),
		DueDate:     unixTime(inv.DueDate),
		PeriodStart: unixTime(inv.PeriodStart),
		PeriodEnd:   unixTime(inv.PeriodEnd),
	}
	if inv.Customer != nil {
		u.CustomerID = inv.Customer.ID
	}
	if inv.StatusTransitions != nil && inv.StatusTransitions.PaidAt > 0 {
		paid := unixTime(inv.StatusTransitions.PaidAt)
		u.PaidAt = &paid
	}
	return u
}

func subscriptionUpdate(sub *stripe.Subscription) *SubscriptionUpdate {
	u := &SubscriptionUpdate{
		ProviderID:        sub.ID,
		Status:            string(sub.Status),
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
	}
	if sub.Customer != nil {
		u.CustomerID = sub.Customer.ID
	}
	if sub.CanceledAt > 0 {
		at := unixTime(sub.CanceledAt)
		u.CanceledAt = &at
	}
	return u
}

func fromCents(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// unixTime returns the zero time for unset (0) timestamps.
func unixTime(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}

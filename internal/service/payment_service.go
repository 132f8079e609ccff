package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/repository/unitofwork"
	"projectmeats-be/pkg/billing"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapClient is the part of the Midtrans Snap client used for invoice checkout.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type IPaymentService interface {
	HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error)
	StartPaidSubscription(ctx context.Context, tenantId uuid.UUID, email string) (*entity.Subscription, error)
	CreateInvoiceCheckout(ctx context.Context, tenantId, invoiceId uuid.UUID) (*dto.CheckoutResponse, error)
	HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory        unitofwork.RepositoryFactory
	subscriptions     ISubscriptionService
	invoices          IInvoiceService
	provider          billing.Provider
	snapClient        SnapClient
	midtransServerKey string
	events            IEventPublisher
	metrics           *metrics.Metrics
	logger            logger.ILogger
}

// NewPaymentService: snapClient may be nil when Midtrans is not configured.
func NewPaymentService(
	uowFactory unitofwork.RepositoryFactory,
	subscriptions ISubscriptionService,
	invoices IInvoiceService,
	provider billing.Provider,
	snapClient SnapClient,
	midtransServerKey string,
	events IEventPublisher,
	m *metrics.Metrics,
	log logger.ILogger,
) IPaymentService {
	return &paymentService{
		uowFactory:        uowFactory,
		subscriptions:     subscriptions,
		invoices:          invoices,
		provider:          provider,
		snapClient:        snapClient,
		midtransServerKey: midtransServerKey,
		events:            events,
		metrics:           m,
		logger:            log,
	}
}

// NewSnapClient builds a Midtrans Snap client for the given environment.
func NewSnapClient(serverKey string, isProduction bool) *snap.Client {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}
	var client snap.Client
	client.New(serverKey, env)
	return &client
}

func (s *paymentService) HandleStripeWebhook(ctx context.Context, payload []byte, signature string) (*dto.WebhookResult, error) {
	evt, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, billing.ErrInvalidSignature):
			s.metrics.RecordWebhook("stripe", "rejected")
			s.logger.Warn("PAYMENT", "Rejected Stripe webhook", map[string]interface{}{"error": err.Error()})
			return nil, apperror.NewUnauthorizedError("Invalid webhook signature")
		case errors.Is(err, billing.ErrNotConfigured):
			s.metrics.RecordWebhook("stripe", "unconfigured")
			return nil, apperror.NewConfigurationError("Stripe is not configured")
		default:
			s.metrics.RecordWebhook("stripe", "invalid")
			return nil, apperror.NewValidationError("Invalid webhook payload", err.Error())
		}
	}

	result := &dto.WebhookResult{EventType: evt.Type}
	switch {
	case evt.Invoice != nil:
		result.Handled, err = s.applyStripeInvoice(ctx, evt.Invoice)
	case evt.Subscription != nil:
		result.Handled, err = s.applyStripeSubscription(ctx, evt.Type, evt.Subscription)
	}
	if err != nil {
		s.metrics.RecordWebhook("stripe", "failed")
		return nil, err
	}

	outcome := "ignored"
	if result.Handled {
		outcome = "applied"
	}
	s.metrics.RecordWebhook("stripe", outcome)
	s.logger.Info("PAYMENT", "Stripe webhook processed", map[string]interface{}{
		"event_id": evt.ID,
		"type":     evt.Type,
		"outcome":  outcome,
	})
	return result, nil
}

// applyStripeInvoice reports false when no local subscription matches the customer.
func (s *paymentService) applyStripeInvoice(ctx context.Context, inv *billing.InvoiceUpdate) (bool, error) {
	var sub *entity.Subscription
	if inv.CustomerID != "" {
		found, err := s.uowFactory.NewUnitOfWork(ctx).SubscriptionRepository().
			FindOneSubscription(ctx, specification.ByStripeCustomerID{StripeCustomerID: inv.CustomerID})
		if err != nil {
			return false, err
		}
		sub = found
	}
	if sub == nil {
		s.logger.Warn("PAYMENT", "No subscription for Stripe customer", map[string]interface{}{
			"customer_id": inv.CustomerID,
			"invoice_id":  inv.ProviderID,
		})
		return false, nil
	}

	status := inv.Status
	if !entity.InvoiceStatus(status).Valid() {
		status = string(entity.InvoiceStatusDraft)
	}

	_, err := s.invoices.RecordInvoice(ctx, &dto.RecordInvoiceCommand{
		SubscriptionId:  sub.Id,
		StripeInvoiceId: inv.ProviderID,
		InvoiceNumber:   inv.Number,
		AmountDue:       inv.AmountDue,
		AmountPaid:      inv.AmountPaid,
		InvoiceDate:     inv.Created,
		DueDate:         dueDateOrCreated(inv),
		PaidDate:        inv.PaidAt,
		Status:          status,
		PeriodStart:     inv.PeriodStart,
		PeriodEnd:       inv.PeriodEnd,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// Stripe leaves due_date unset for charge_automatically invoices.
func dueDateOrCreated(inv *billing.InvoiceUpdate) time.Time {
	if inv.DueDate.IsZero() {
		return inv.Created
	}
	return inv.DueDate
}

func (s *paymentService) applyStripeSubscription(ctx context.Context, eventType string, upd *billing.SubscriptionUpdate) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	if upd.ProviderID == "" {
		return false, nil
	}
	repo := uow.SubscriptionRepository()
	sub, err := repo.FindOneSubscription(ctx, specification.ByStripeSubscriptionID{StripeSubscriptionID: upd.ProviderID})
	if err != nil {
		return false, err
	}
	if sub == nil {
		s.logger.Warn("PAYMENT", "No subscription for Stripe subscription", map[string]interface{}{
			"stripe_subscription_id": upd.ProviderID,
		})
		return false, nil
	}

	previous := sub.Status
	if status := entity.SubscriptionStatus(upd.Status); status.Valid() {
		sub.Status = status
	}
	if eventType == billing.EventSubscriptionDeleted {
		sub.Status = entity.SubscriptionStatusCanceled
	}
	sub.CancelAtPeriodEnd = upd.CancelAtPeriodEnd
	if upd.CanceledAt != nil {
		sub.CanceledAt = upd.CanceledAt
	}
	if upd.CustomerID != "" {
		sub.StripeCustomerId = upd.CustomerID
	}

	if err := repo.UpdateSubscription(ctx, sub); err != nil {
		return false, err
	}
	if err := uow.Commit(); err != nil {
		return false, err
	}

	s.events.Publish(ctx, EventSubscriptionSynced, map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       sub.TenantId,
		"previous_status": previous,
		"status":          sub.Status,
	})
	return true, nil
}

// StartPaidSubscription moves the tenant's current plan onto a Stripe
// subscription. Status changes arrive later through the webhook.
func (s *paymentService) StartPaidSubscription(ctx context.Context, tenantId uuid.UUID, email string) (*entity.Subscription, error) {
	current, err := s.subscriptions.GetOrCreateForTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}
	if current.StripeSubscriptionId != "" {
		return nil, apperror.NewValidationError("Tenant already has a paid subscription")
	}
	if current.Plan == nil || current.Plan.StripePriceId == "" {
		return nil, apperror.NewValidationError("Current plan cannot be purchased online")
	}

	customerId := current.StripeCustomerId
	if customerId == "" {
		customerId, err = s.provider.CreateCustomer(ctx, tenantId.String(), email)
		if err != nil {
			return nil, s.providerError(err)
		}
	}

	stripeSubId, err := s.provider.CreateSubscription(ctx, customerId, current.Plan.StripePriceId)
	if err != nil {
		return nil, s.providerError(err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: current.Id})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", current.Id.String())
	}
	sub.StripeCustomerId = customerId
	sub.StripeSubscriptionId = stripeSubId
	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("PAYMENT", "Stripe subscription started", map[string]interface{}{
		"tenant_id":              tenantId,
		"stripe_subscription_id": stripeSubId,
	})
	return sub, nil
}

func (s *paymentService) providerError(err error) error {
	if errors.Is(err, billing.ErrNotConfigured) {
		return apperror.NewConfigurationError("Payment provider is not configured")
	}
	s.logger.Error("PAYMENT", "Payment provider call failed", map[string]interface{}{"error": err.Error()})
	return fmt.Errorf("payment provider: %w", err)
}

// CreateInvoiceCheckout opens a Midtrans Snap transaction for the invoice's
// outstanding amount. The invoice id is the Midtrans order id.
func (s *paymentService) CreateInvoiceCheckout(ctx context.Context, tenantId, invoiceId uuid.UUID) (*dto.CheckoutResponse, error) {
	if s.snapClient == nil || s.midtransServerKey == "" {
		return nil, apperror.NewConfigurationError("Midtrans is not configured")
	}

	invoice, err := s.invoices.GetForTenant(ctx, tenantId, invoiceId)
	if err != nil {
		return nil, err
	}
	if invoice.Status != entity.InvoiceStatusOpen {
		return nil, apperror.NewValidationError("Only open invoices can be paid", string(invoice.Status))
	}

	outstanding := invoice.AmountDue.Sub(invoice.AmountPaid)
	if !outstanding.IsPositive() {
		return nil, apperror.NewValidationError("Invoice has no outstanding amount")
	}
	grossAmount := outstanding.Ceil().IntPart()

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  invoice.Id.String(),
			GrossAmt: grossAmount,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    invoice.Id.String(),
				Name:  invoice.InvoiceNumber,
				Price: grossAmount,
				Qty:   1,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := s.snapClient.CreateTransaction(snapReq)
	if midErr != nil {
		s.logger.Error("PAYMENT", "Midtrans transaction failed", map[string]interface{}{
			"invoice_id": invoice.Id,
			"error":      midErr.GetMessage(),
		})
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	return &dto.CheckoutResponse{
		InvoiceId:   invoice.Id,
		SnapToken:   snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

// MidtransSignature is SHA512(order_id + status_code + gross_amount + server_key), hex encoded.
func MidtransSignature(orderId, statusCode, grossAmount, serverKey string) string {
	return fmt.Sprintf("%x", sha512.Sum512([]byte(orderId+statusCode+grossAmount+serverKey)))
}

func (s *paymentService) HandleMidtransNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	if s.midtransServerKey == "" {
		s.metrics.RecordWebhook("midtrans", "unconfigured")
		return apperror.NewConfigurationError("Midtrans is not configured")
	}

	expected := MidtransSignature(req.OrderId, req.StatusCode, req.GrossAmount, s.midtransServerKey)
	if subtle.ConstantTimeCompare([]byte(req.SignatureKey), []byte(expected)) != 1 {
		s.metrics.RecordWebhook("midtrans", "rejected")
		s.logger.Warn("PAYMENT", "Midtrans signature mismatch", map[string]interface{}{"order_id": req.OrderId})
		return apperror.NewUnauthorizedError("Invalid signature")
	}

	invoiceId, err := uuid.Parse(req.OrderId)
	if err != nil {
		s.metrics.RecordWebhook("midtrans", "invalid")
		return apperror.NewValidationError("Invalid order id format", req.OrderId)
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if req.TransactionStatus == "capture" && req.FraudStatus == "challenge" {
			s.logger.Warn("PAYMENT", "Midtrans capture under fraud review", map[string]interface{}{"order_id": req.OrderId})
			s.metrics.RecordWebhook("midtrans", "ignored")
			return nil
		}
		if _, err := s.invoices.MarkPaid(ctx, invoiceId, now()); err != nil {
			s.metrics.RecordWebhook("midtrans", "failed")
			return err
		}
		s.metrics.RecordWebhook("midtrans", "applied")
	case "deny", "cancel", "expire":
		s.logger.Warn("PAYMENT", "Midtrans payment failed, invoice stays open", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		s.metrics.RecordWebhook("midtrans", "failed_payment")
	default:
		s.logger.Info("PAYMENT", "Midtrans notification needs no action", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
		s.metrics.RecordWebhook("midtrans", "ignored")
	}
	return nil
}

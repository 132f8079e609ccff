package service

import (
	"context"
	"fmt"
	"time"

	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IInvoiceService interface {
	ListForTenant(ctx context.Context, tenantId uuid.UUID) ([]*entity.Invoice, error)
	GetForTenant(ctx context.Context, tenantId, invoiceId uuid.UUID) (*entity.Invoice, error)
	RecordInvoice(ctx context.Context, cmd *dto.RecordInvoiceCommand) (*entity.Invoice, error)
	MarkPaid(ctx context.Context, invoiceId uuid.UUID, paidAt time.Time) (*entity.Invoice, error)
}

type invoiceService struct {
	uowFactory unitofwork.RepositoryFactory
	events     IEventPublisher
	logger     logger.ILogger
}

func NewInvoiceService(
	uowFactory unitofwork.RepositoryFactory,
	events IEventPublisher,
	log logger.ILogger,
) IInvoiceService {
	return &invoiceService{
		uowFactory: uowFactory,
		events:     events,
		logger:     log,
	}
}

// ListForTenant returns the tenant's invoices, newest first. A tenant without a
// subscription has no invoices; listing never starts a trial.
func (s *invoiceService) ListForTenant(ctx context.Context, tenantId uuid.UUID) ([]*entity.Invoice, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return []*entity.Invoice{}, nil
	}

	invoices, err := uow.InvoiceRepository().FindAll(ctx,
		specification.BySubscriptionID{SubscriptionID: sub.Id},
		specification.OrderBy{Field: "invoice_date", Desc: true},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) GetForTenant(ctx context.Context, tenantId, invoiceId uuid.UUID) (*entity.Invoice, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Invoice not found", invoiceId.String())
	}

	invoice, err := uow.InvoiceRepository().FindOne(ctx,
		specification.ByID{ID: invoiceId},
		specification.BySubscriptionID{SubscriptionID: sub.Id},
	)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice not found", invoiceId.String())
	}
	return invoice, nil
}

// RecordInvoice appends an invoice, or updates the one carrying the same
// Stripe invoice id.
func (s *invoiceService) RecordInvoice(ctx context.Context, cmd *dto.RecordInvoiceCommand) (*entity.Invoice, error) {
	status := entity.InvoiceStatus(cmd.Status)
	if status == "" {
		status = entity.InvoiceStatusDraft
	}
	if !status.Valid() {
		return nil, apperror.NewValidationError("invalid invoice status", cmd.Status)
	}
	if cmd.AmountDue.IsNegative() || cmd.AmountPaid.IsNegative() {
		return nil, apperror.NewValidationError("invoice amounts must not be negative")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: cmd.SubscriptionId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", cmd.SubscriptionId.String())
	}

	repo := uow.InvoiceRepository()
	var invoice *entity.Invoice
	if cmd.StripeInvoiceId != "" {
		invoice, err = repo.FindOne(ctx, specification.ByStripeInvoiceID{StripeInvoiceID: cmd.StripeInvoiceId})
		if err != nil {
			return nil, err
		}
	}

	created := invoice == nil
	wasPaid := !created && invoice.Status == entity.InvoiceStatusPaid
	if created {
		invoice = &entity.Invoice{SubscriptionId: sub.Id}
		if cmd.StripeInvoiceId != "" {
			stripeId := cmd.StripeInvoiceId
			invoice.StripeInvoiceId = &stripeId
		}
	}

	invoice.InvoiceNumber = cmd.InvoiceNumber
	if invoice.InvoiceNumber == "" {
		count, err := repo.Count(ctx, specification.BySubscriptionID{SubscriptionID: sub.Id})
		if err != nil {
			return nil, err
		}
		invoice.InvoiceNumber = invoiceNumber(cmd.InvoiceDate, count+1)
	}
	invoice.AmountDue = cmd.AmountDue
	invoice.AmountPaid = cmd.AmountPaid
	invoice.InvoiceDate = cmd.InvoiceDate
	invoice.DueDate = cmd.DueDate
	invoice.PaidDate = cmd.PaidDate
	invoice.Status = status
	invoice.PeriodStart = cmd.PeriodStart
	invoice.PeriodEnd = cmd.PeriodEnd

	if created {
		err = repo.Create(ctx, invoice)
	} else {
		err = repo.Update(ctx, invoice)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record invoice: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("INVOICE", "Invoice recorded", map[string]interface{}{
		"invoice_id":      invoice.Id,
		"subscription_id": sub.Id,
		"status":          invoice.Status,
		"created":         created,
	})
	s.events.Publish(ctx, EventInvoiceRecorded, invoicePayload(invoice, sub.TenantId))
	if invoice.Status == entity.InvoiceStatusPaid && !wasPaid {
		s.events.Publish(ctx, EventInvoicePaid, invoicePayload(invoice, sub.TenantId))
	}
	return invoice, nil
}

// MarkPaid settles the invoice in full. Paying a paid invoice is a no-op.
func (s *invoiceService) MarkPaid(ctx context.Context, invoiceId uuid.UUID, paidAt time.Time) (*entity.Invoice, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.InvoiceRepository()
	invoice, err := repo.FindOne(ctx, specification.ByID{ID: invoiceId})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice not found", invoiceId.String())
	}
	if invoice.Status == entity.InvoiceStatusPaid {
		return invoice, nil
	}
	if invoice.Status == entity.InvoiceStatusVoid {
		return nil, apperror.NewValidationError("Void invoices cannot be paid", invoiceId.String())
	}

	invoice.MarkPaid(paidAt.UTC())
	if err := repo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByID{ID: invoice.SubscriptionId})
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	var tenantId uuid.UUID
	if sub != nil {
		tenantId = sub.TenantId
	}
	s.logger.Info("INVOICE", "Invoice paid", map[string]interface{}{
		"invoice_id": invoice.Id,
		"amount":     invoice.AmountPaid.StringFixed(2),
	})
	s.events.Publish(ctx, EventInvoicePaid, invoicePayload(invoice, tenantId))
	return invoice, nil
}

func invoiceNumber(date time.Time, seq int64) string {
	if date.IsZero() {
		date = now()
	}
	return fmt.Sprintf("INV-%s-%04d", date.Format("200601"), seq)
}

func invoicePayload(invoice *entity.Invoice, tenantId uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"invoice_id":      invoice.Id,
		"subscription_id": invoice.SubscriptionId,
		"tenant_id":       tenantId,
		"invoice_number":  invoice.InvoiceNumber,
		"amount_due":      invoice.AmountDue.StringFixed(2),
		"amount_paid":     invoice.AmountPaid.StringFixed(2),
		"status":          invoice.Status,
	}
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft         InvoiceStatus = "draft"
	InvoiceStatusOpen          InvoiceStatus = "open"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusVoid          InvoiceStatus = "void"
	InvoiceStatusUncollectible InvoiceStatus = "uncollectible"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusOpen, InvoiceStatusPaid, InvoiceStatusVoid, InvoiceStatusUncollectible:
		return true
	}
	return false
}

type Invoice struct {
	Id              uuid.UUID
	SubscriptionId  uuid.UUID
	StripeInvoiceId *string
	InvoiceNumber   string
	AmountDue       decimal.Decimal
	AmountPaid      decimal.Decimal
	InvoiceDate     time.Time
	DueDate         time.Time
	PaidDate        *time.Time
	Status          InvoiceStatus
	PeriodStart     time.Time
	PeriodEnd       time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusOpen && now.After(i.DueDate)
}

// MarkPaid settles the invoice in full.
func (i *Invoice) MarkPaid(paidAt time.Time) {
	i.Status = InvoiceStatusPaid
	i.AmountPaid = i.AmountDue
	i.PaidDate = &paidAt
}

package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceResponse struct {
	Id             uuid.UUID  `json:"id"`
	SubscriptionId uuid.UUID  `json:"subscription"`
	InvoiceNumber  string     `json:"invoice_number"`
	AmountDue      string     `json:"amount_due"`
	AmountPaid     string     `json:"amount_paid"`
	InvoiceDate    time.Time  `json:"invoice_date"`
	DueDate        time.Time  `json:"due_date"`
	PaidDate       *time.Time `json:"paid_date"`
	Status         string     `json:"status"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
	IsOverdue      bool       `json:"is_overdue"`
	CreatedAt      time.Time  `json:"created_on"`
}

// RecordInvoiceCommand is what the billing integration hands the ledger.
// A non-empty StripeInvoiceId makes the write an upsert.
type RecordInvoiceCommand struct {
	SubscriptionId  uuid.UUID
	StripeInvoiceId string
	InvoiceNumber   string
	AmountDue       decimal.Decimal
	AmountPaid      decimal.Decimal
	InvoiceDate     time.Time
	DueDate         time.Time
	PaidDate        *time.Time
	Status          string
	PeriodStart     time.Time
	PeriodEnd       time.Time
}

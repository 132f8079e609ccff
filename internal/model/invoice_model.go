package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Invoice is the billing-side ledger row, not an accounts-receivable invoice.
type Invoice struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SubscriptionId  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subscription    *Subscription   `gorm:"foreignKey:SubscriptionId;constraint:OnDelete:CASCADE"`
	StripeInvoiceId *string         `gorm:"type:varchar(255);uniqueIndex"`
	InvoiceNumber   string          `gorm:"type:varchar(100);not null"`
	AmountDue       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	AmountPaid      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	InvoiceDate     time.Time       `gorm:"not null;index"`
	DueDate         time.Time       `gorm:"not null"`
	PaidDate        *time.Time
	Status          string    `gorm:"type:varchar(20);not null;default:'draft'"`
	PeriodStart     time.Time `gorm:"not null"`
	PeriodEnd       time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Invoice) TableName() string {
	return "billing_invoices"
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.Id == uuid.Nil {
		i.Id = uuid.New()
	}
	return nil
}

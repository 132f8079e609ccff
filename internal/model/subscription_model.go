package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubscriptionPlan struct {
	Id            uuid.UUID           `gorm:"type:uuid;primaryKey"`
	Name          string              `gorm:"type:varchar(100);uniqueIndex;not null"`
	Tier          string              `gorm:"type:varchar(20);not null;index"`
	StripePriceId string              `gorm:"type:varchar(255)"`
	MonthlyPrice  decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	YearlyPrice   decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	// Resource limits, NULL = unlimited
	MaxUsers          *int
	MaxSuppliers      *int
	MaxCustomers      *int
	MaxOrdersPerMonth *int
	// Feature flags
	HasAiAssistant        bool `gorm:"not null"`
	HasAdvancedReporting  bool `gorm:"not null"`
	HasDocumentProcessing bool `gorm:"not null"`
	HasApiAccess          bool `gorm:"not null"`
	HasPrioritySupport    bool `gorm:"not null"`
	HasCustomBranding     bool `gorm:"not null"`

	Description string                      `gorm:"type:text"`
	Features    datatypes.JSONSlice[string] `gorm:"type:json"`
	IsActive    bool                        `gorm:"not null"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}

func (p *SubscriptionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.Id == uuid.Nil {
		p.Id = uuid.New()
	}
	return nil
}

type Subscription struct {
	Id                   uuid.UUID        `gorm:"type:uuid;primaryKey"`
	TenantId             uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null"`
	PlanId               uuid.UUID        `gorm:"type:uuid;not null;index"`
	Plan                 SubscriptionPlan `gorm:"foreignKey:PlanId;constraint:OnDelete:RESTRICT"`
	StripeSubscriptionId string           `gorm:"type:varchar(255);index"`
	StripeCustomerId     string           `gorm:"type:varchar(255);index"`
	Status               string           `gorm:"type:varchar(30);not null;default:'trialing'"`
	BillingCycle         string           `gorm:"type:varchar(20);not null;default:'monthly'"`
	BillingCycleAnchor   time.Time        `gorm:"not null"`
	CurrentPeriodStart   time.Time        `gorm:"not null"`
	CurrentPeriodEnd     time.Time        `gorm:"not null"`
	TrialStart           *time.Time
	TrialEnd             *time.Time
	CanceledAt           *time.Time
	CancelAtPeriodEnd    bool             `gorm:"not null"`
	CurrentUsers         int              `gorm:"not null"`
	CurrentSuppliers     int              `gorm:"not null"`
	CurrentCustomers     int              `gorm:"not null"`
	CurrentMonthOrders   int              `gorm:"not null"`
	CreatedAt            time.Time        `gorm:"autoCreateTime"`
	UpdatedAt            time.Time        `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}

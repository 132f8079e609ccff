package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByTenantID struct {
	TenantID uuid.UUID
}

func (s ByTenantID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}

type BySubscriptionID struct {
	SubscriptionID uuid.UUID
}

func (s BySubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_id = ?", s.SubscriptionID)
}

type ByTier struct {
	Tier string
}

func (s ByTier) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tier = ?", s.Tier)
}

type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// ActiveOnly keeps rows whose is_active flag is set
type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type ByOwnerID struct {
	OwnerID uuid.UUID
}

func (s ByOwnerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

type ByStripeSubscriptionID struct {
	StripeSubscriptionID string
}

func (s ByStripeSubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_subscription_id = ?", s.StripeSubscriptionID)
}

type ByStripeCustomerID struct {
	StripeCustomerID string
}

func (s ByStripeCustomerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_customer_id = ?", s.StripeCustomerID)
}

type ByStripeInvoiceID struct {
	StripeInvoiceID string
}

func (s ByStripeInvoiceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_invoice_id = ?", s.StripeInvoiceID)
}

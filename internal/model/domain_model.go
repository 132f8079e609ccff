package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Brokerage rows the usage counter reads. Only the columns needed for
// counting and seeding are mapped here.

type Supplier struct {
	Id           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantScoped TenantScoped `gorm:"embedded"`
	Name         string       `gorm:"type:varchar(255);not null"`
	Status       string       `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	return nil
}

type Customer struct {
	Id           uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantScoped TenantScoped `gorm:"embedded"`
	Name         string       `gorm:"type:varchar(255);not null"`
	Status       string       `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	return nil
}

type PurchaseOrder struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantScoped TenantScoped    `gorm:"embedded"`
	OrderNumber  string          `gorm:"type:varchar(50);not null"`
	SupplierId   *uuid.UUID      `gorm:"type:uuid;index"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status       string          `gorm:"type:varchar(20);not null;default:'active'"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) error {
	if o.Id == uuid.Nil {
		o.Id = uuid.New()
	}
	return nil
}

// AllModels lists every table in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Tenant{},
		&SubscriptionPlan{},
		&Subscription{},
		&Invoice{},
		&Supplier{},
		&Customer{},
		&PurchaseOrder{},
	}
}

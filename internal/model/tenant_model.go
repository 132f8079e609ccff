package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantScoped carries the ownership and audit columns shared by every
// tenant-owned domain row. Embed it instead of repeating the fields.
type TenantScoped struct {
	TenantId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	OwnerId    *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid"`
	ModifiedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime"`
}

type Tenant struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Subdomain string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Tenant) TableName() string {
	return "tenants"
}

func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.Id == uuid.Nil {
		t.Id = uuid.New()
	}
	return nil
}

type User struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	FullName  string     `gorm:"type:varchar(255);not null"`
	TenantId  *uuid.UUID `gorm:"type:uuid;index"`
	IsActive  bool       `gorm:"not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Id == uuid.Nil {
		u.Id = uuid.New()
	}
	return nil
}

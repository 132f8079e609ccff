package scope

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForTenant restricts a query on a tenant-scoped table.
func ForTenant(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

// CreatedSince keeps rows created at or after since.
func CreatedSince(since time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", since)
	}
}

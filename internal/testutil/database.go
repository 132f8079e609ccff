// Package testutil holds fixtures shared by repository, service and
// controller tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"projectmeats-be/internal/model"
	"projectmeats-be/pkg/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewTestDB opens a migrated SQLite database private to the test.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "licensing.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedTenant inserts an active tenant owned by a fresh user.
func SeedTenant(t *testing.T, db *gorm.DB, subdomain string) *model.Tenant {
	t.Helper()

	owner := &model.User{Email: subdomain + "@example.com", FullName: "Owner " + subdomain, IsActive: true}
	require.NoError(t, db.Create(owner).Error)

	tenant := &model.Tenant{Name: subdomain, Subdomain: subdomain, OwnerId: owner.Id, IsActive: true}
	require.NoError(t, db.Create(tenant).Error)

	require.NoError(t, db.Model(owner).Update("tenant_id", tenant.Id).Error)
	return tenant
}

// SeedPlan inserts a plan row with the given tier and monthly price.
func SeedPlan(t *testing.T, db *gorm.DB, name, tier string, monthly string, mutate ...func(*model.SubscriptionPlan)) *model.SubscriptionPlan {
	t.Helper()

	plan := &model.SubscriptionPlan{
		Name:                  name,
		Tier:                  tier,
		MonthlyPrice:          decimal.RequireFromString(monthly),
		HasAiAssistant:        true,
		HasAdvancedReporting:  true,
		HasDocumentProcessing: true,
		IsActive:              true,
	}
	for _, m := range mutate {
		m(plan)
	}
	require.NoError(t, db.Create(plan).Error)
	return plan
}

// SeedSuppliers inserts n suppliers for the tenant.
func SeedSuppliers(t *testing.T, db *gorm.DB, tenantID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		s := &model.Supplier{TenantScoped: model.TenantScoped{TenantId: tenantID}, Name: "Supplier"}
		require.NoError(t, db.Create(s).Error)
	}
}

// SeedCustomers inserts n customers for the tenant.
func SeedCustomers(t *testing.T, db *gorm.DB, tenantID uuid.UUID, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c := &model.Customer{TenantScoped: model.TenantScoped{TenantId: tenantID}, Name: "Customer"}
		require.NoError(t, db.Create(c).Error)
	}
}

// SeedOrders inserts n purchase orders for the tenant created at createdAt.
func SeedOrders(t *testing.T, db *gorm.DB, tenantID uuid.UUID, n int, createdAt time.Time) {
	t.Helper()
	for i := 0; i < n; i++ {
		o := &model.PurchaseOrder{
			TenantScoped: model.TenantScoped{TenantId: tenantID, CreatedAt: createdAt.UTC()},
			OrderNumber:  uuid.NewString()[:8],
		}
		require.NoError(t, db.Create(o).Error)
	}
}

package implementation

import (
	"context"
	"time"

	"projectmeats-be/internal/model"
	"projectmeats-be/internal/repository/contract"
	"projectmeats-be/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageRepositoryImpl struct {
	db *gorm.DB
}

func NewUsageRepository(db *gorm.DB) contract.UsageRepository {
	return &UsageRepositoryImpl{db: db}
}

func (r *UsageRepositoryImpl) CountSuppliers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.Supplier{}, scope.ForTenant(tenantID))
}

func (r *UsageRepositoryImpl) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.Customer{}, scope.ForTenant(tenantID))
}

func (r *UsageRepositoryImpl) CountOrdersSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error) {
	return r.count(ctx, &model.PurchaseOrder{}, scope.ForTenant(tenantID), scope.CreatedSince(since))
}

func (r *UsageRepositoryImpl) CountAllUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &model.User{})
}

func (r *UsageRepositoryImpl) CountTenantUsers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return r.count(ctx, &model.User{}, scope.ForTenant(tenantID))
}

func (r *UsageRepositoryImpl) count(ctx context.Context, table interface{}, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(table).Scopes(scopes...).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

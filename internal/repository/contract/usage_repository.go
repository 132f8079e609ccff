package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UsageRepository counts the domain records a plan limits.
type UsageRepository interface {
	CountSuppliers(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOrdersSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (int64, error)
	CountAllUsers(ctx context.Context) (int64, error)
	CountTenantUsers(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

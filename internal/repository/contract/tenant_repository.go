package contract

import (
	"context"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/repository/specification"

	"github.com/google/uuid"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *entity.Tenant) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Tenant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Tenant, error)
	// FindUserTenantID returns the tenant a user is attached to, if any.
	FindUserTenantID(ctx context.Context, userID uuid.UUID) (*uuid.UUID, error)
}

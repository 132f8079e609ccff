package service

import (
	"context"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ITenantResolver interface {
	// ResolveForPrincipal returns the tenant the user acts for, or a NotFound error.
	ResolveForPrincipal(ctx context.Context, userId uuid.UUID) (*entity.Tenant, error)
	ResolveTenantID(ctx context.Context, userId uuid.UUID) (uuid.UUID, error)
}

type tenantResolver struct {
	uowFactory    unitofwork.RepositoryFactory
	allowFallback bool
	logger        logger.ILogger
}

// NewTenantResolver: allowFallback enables the first-tenant fallback and must
// only be true outside production.
func NewTenantResolver(uowFactory unitofwork.RepositoryFactory, allowFallback bool, log logger.ILogger) ITenantResolver {
	return &tenantResolver{
		uowFactory:    uowFactory,
		allowFallback: allowFallback,
		logger:        log,
	}
}

func (r *tenantResolver) ResolveForPrincipal(ctx context.Context, userId uuid.UUID) (*entity.Tenant, error) {
	repo := r.uowFactory.NewUnitOfWork(ctx).TenantRepository()

	owned, err := repo.FindOne(ctx,
		specification.ByOwnerID{OwnerID: userId},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}
	if owned != nil {
		return owned, nil
	}

	memberOf, err := repo.FindUserTenantID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if memberOf != nil {
		tenant, err := repo.FindOne(ctx, specification.ByID{ID: *memberOf}, specification.ActiveOnly{})
		if err != nil {
			return nil, err
		}
		if tenant != nil {
			return tenant, nil
		}
	}

	if r.allowFallback {
		first, err := repo.FindOne(ctx, specification.ActiveOnly{}, specification.OrderBy{Field: "created_at"})
		if err != nil {
			return nil, err
		}
		if first != nil {
			r.logger.Warn("TENANT", "Using development tenant fallback", map[string]interface{}{
				"user_id":   userId,
				"tenant_id": first.Id,
			})
			return first, nil
		}
	}

	return nil, apperror.NewNotFoundError(reasonNoTenant)
}

func (r *tenantResolver) ResolveTenantID(ctx context.Context, userId uuid.UUID) (uuid.UUID, error) {
	tenant, err := r.ResolveForPrincipal(ctx, userId)
	if err != nil {
		return uuid.Nil, err
	}
	return tenant.Id, nil
}

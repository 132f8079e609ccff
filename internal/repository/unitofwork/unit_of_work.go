package unitofwork

import (
	"context"

	"projectmeats-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SubscriptionRepository() contract.SubscriptionRepository
	InvoiceRepository() contract.InvoiceRepository
	TenantRepository() contract.TenantRepository
	UsageRepository() contract.UsageRepository
}

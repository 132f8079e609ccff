package service

import (
	"context"
	"fmt"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/cache"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type PlanService interface {
	// ListActivePlans returns active plans, cheapest first.
	ListActivePlans(ctx context.Context) ([]*entity.Plan, error)
	GetPlan(ctx context.Context, id uuid.UUID) (*entity.Plan, error)
	// SavePlan creates the plan or updates the one with the same name.
	SavePlan(ctx context.Context, plan *entity.Plan) (created bool, err error)
	InvalidateCache(ctx context.Context)
}

type planService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      cache.PlanCache
	metrics    *metrics.Metrics
	logger     logger.ILogger
}

func NewPlanService(uowFactory unitofwork.RepositoryFactory, planCache cache.PlanCache, m *metrics.Metrics, log logger.ILogger) PlanService {
	return &planService{
		uowFactory: uowFactory,
		cache:      planCache,
		metrics:    m,
		logger:     log,
	}
}

func (s *planService) ListActivePlans(ctx context.Context) ([]*entity.Plan, error) {
	if plans, ok := s.cache.GetActivePlans(ctx); ok {
		s.metrics.RecordCacheLookup(true)
		return plans, nil
	}
	s.metrics.RecordCacheLookup(false)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	plans, err := uow.SubscriptionRepository().FindAllPlans(ctx,
		specification.ActiveOnly{},
		specification.OrderBy{Field: "monthly_price"},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	s.cache.SetActivePlans(ctx, plans)
	return plans, nil
}

func (s *planService) GetPlan(ctx context.Context, id uuid.UUID) (*entity.Plan, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	plan, err := uow.SubscriptionRepository().FindOnePlan(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		return nil, apperror.NewNotFoundError("Subscription plan not found", id.String())
	}
	return plan, nil
}

func (s *planService) SavePlan(ctx context.Context, plan *entity.Plan) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer uow.Rollback()

	repo := uow.SubscriptionRepository()
	existing, err := repo.FindOnePlan(ctx, specification.ByName{Name: plan.Name})
	if err != nil {
		return false, err
	}

	created := existing == nil
	if created {
		err = repo.CreatePlan(ctx, plan)
	} else {
		plan.Id = existing.Id
		plan.CreatedAt = existing.CreatedAt
		err = repo.UpdatePlan(ctx, plan)
	}
	if err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, err
	}

	s.InvalidateCache(ctx)
	s.logger.Info("PLAN", "Plan saved", map[string]interface{}{
		"plan_id": plan.Id,
		"name":    plan.Name,
		"created": created,
	})
	return created, nil
}

func (s *planService) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx)
}

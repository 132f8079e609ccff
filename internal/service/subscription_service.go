package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"projectmeats-be/internal/config"
	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/mapper"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/pkg/logger"
	"projectmeats-be/internal/pkg/metrics"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/repository/unitofwork"
	"projectmeats-be/pkg/billing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxTrialDays = 365

	reasonInactive       = "Subscription is not active"
	reasonNotInPlan      = "Feature not included in current plan"
	reasonNoTenant       = "No tenant found"
	defaultFreePlanName  = "Free Trial"
	defaultFreePlanBlurb = "Free trial with basic features"
)

type ISubscriptionService interface {
	CreateTrial(ctx context.Context, tenantId uuid.UUID, trialDays int) (*entity.Subscription, error)
	GetOrCreateForTenant(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error)
	ChangePlan(ctx context.Context, tenantId uuid.UUID, req *dto.CreateSubscriptionRequest) (*entity.Subscription, error)
	Cancel(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error)

	RefreshUsage(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error)
	GetUsage(ctx context.Context, tenantId uuid.UUID) (*dto.UsageResponse, error)
	CheckFeatureAccess(ctx context.Context, tenantId uuid.UUID, featureName string) (*dto.FeatureAccessResponse, error)
}

type subscriptionService struct {
	uowFactory unitofwork.RepositoryFactory
	plans      PlanService
	provider   billing.Provider
	events     IEventPublisher
	metrics    *metrics.Metrics
	logger     logger.ILogger
	cfg        config.BillingConfig
}

func NewSubscriptionService(
	uowFactory unitofwork.RepositoryFactory,
	plans PlanService,
	provider billing.Provider,
	events IEventPublisher,
	m *metrics.Metrics,
	log logger.ILogger,
	cfg config.BillingConfig,
) ISubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		plans:      plans,
		provider:   provider,
		events:     events,
		metrics:    m,
		logger:     log,
		cfg:        cfg,
	}
}

// NoTenantFeatureResponse is the access decision for a principal without a tenant.
func NoTenantFeatureResponse(featureName string) *dto.FeatureAccessResponse {
	return &dto.FeatureAccessResponse{
		FeatureName: featureName,
		HasAccess:   false,
		Reason:      reasonNoTenant,
	}
}

// CreateTrial starts a trial on the free plan. An existing subscription for
// the tenant is returned unchanged.
func (s *subscriptionService) CreateTrial(ctx context.Context, tenantId uuid.UUID, trialDays int) (*entity.Subscription, error) {
	if trialDays < 0 || trialDays > maxTrialDays {
		return nil, apperror.NewValidationError(fmt.Sprintf("trial_days must be between 0 and %d", maxTrialDays))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	tenant, err := uow.TenantRepository().FindOne(ctx, specification.ByID{ID: tenantId})
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant not found", tenantId.String())
	}

	existing, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	plan, planCreated, err := s.resolveTrialPlan(ctx, uow)
	if err != nil {
		return nil, err
	}

	sub := entity.NewTrialSubscription(tenantId, plan, now(), trialDays)
	if err := uow.SubscriptionRepository().CreateSubscription(ctx, sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another request created the tenant's trial first
			uow.Rollback()
			return s.findForTenant(ctx, tenantId)
		}
		return nil, fmt.Errorf("failed to create trial subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if planCreated {
		s.plans.InvalidateCache(ctx)
	}
	s.metrics.TrialsCreatedTotal.Inc()
	s.logger.Info("SUBSCRIPTION", "Trial subscription created", map[string]interface{}{
		"tenant_id":  tenantId,
		"plan":       plan.Name,
		"trial_days": trialDays,
	})
	s.events.Publish(ctx, EventSubscriptionTrialStarted, map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       tenantId,
		"plan_id":         plan.Id,
		"plan_name":       plan.Name,
		"trial_end":       sub.TrialEnd,
	})
	return sub, nil
}

// resolveTrialPlan prefers the free tier, creates it when missing, and falls
// back to the cheapest active plan when it cannot be created.
func (s *subscriptionService) resolveTrialPlan(ctx context.Context, uow unitofwork.UnitOfWork) (*entity.Plan, bool, error) {
	repo := uow.SubscriptionRepository()

	plan, err := repo.FindOnePlan(ctx,
		specification.ByTier{Tier: string(entity.PlanTierFree)},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, false, err
	}
	if plan != nil {
		return plan, false, nil
	}

	byName, err := repo.FindOnePlan(ctx, specification.ByName{Name: defaultFreePlanName})
	if err != nil {
		return nil, false, err
	}
	if byName == nil {
		free := defaultFreePlan()
		if err := repo.CreatePlan(ctx, free); err != nil {
			return nil, false, apperror.NewConfigurationError("No subscription plan available for trial", err.Error())
		}
		s.logger.Info("SUBSCRIPTION", "Created default free plan", map[string]interface{}{"plan_id": free.Id})
		return free, true, nil
	}

	fallback, err := repo.FindOnePlan(ctx, specification.ActiveOnly{}, specification.OrderBy{Field: "monthly_price"})
	if err != nil {
		return nil, false, err
	}
	if fallback == nil {
		return nil, false, apperror.NewConfigurationError("No subscription plan available for trial")
	}
	return fallback, false, nil
}

func defaultFreePlan() *entity.Plan {
	p := entity.NewPlan(defaultFreePlanName, entity.PlanTierFree, decimal.Zero)
	p.Description = defaultFreePlanBlurb
	p.MaxSuppliers = entity.Limit(5)
	p.MaxCustomers = entity.Limit(10)
	p.MaxOrdersPerMonth = entity.Limit(50)
	p.HasAdvancedReporting = false
	return p
}

func (s *subscriptionService) GetOrCreateForTenant(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error) {
	sub, err := s.findForTenant(ctx, tenantId)
	if err != nil && !apperror.IsNotFound(err) {
		return nil, err
	}
	if sub != nil {
		return sub, nil
	}
	return s.CreateTrial(ctx, tenantId, s.cfg.TrialDays)
}

func (s *subscriptionService) findForTenant(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", tenantId.String())
	}
	return sub, nil
}

// ChangePlan swaps the plan and billing cycle. Period and trial state stay
// as they are. A missing subscription is first created as a trial, which is
// kept even if the plan change then fails.
func (s *subscriptionService) ChangePlan(ctx context.Context, tenantId uuid.UUID, req *dto.CreateSubscriptionRequest) (*entity.Subscription, error) {
	planId, err := uuid.Parse(req.PlanId)
	if err != nil {
		return nil, apperror.NewValidationError("plan_id must be a valid UUID")
	}

	cycle := entity.BillingCycleMonthly
	if req.BillingCycle != "" {
		cycle = entity.BillingCycle(req.BillingCycle)
	}
	if cycle != entity.BillingCycleMonthly && cycle != entity.BillingCycleYearly {
		return nil, apperror.NewValidationError("billing_cycle must be one of: monthly, yearly")
	}

	trialDays := s.cfg.TrialDays
	if req.TrialDays != nil {
		trialDays = *req.TrialDays
	}
	if trialDays < 0 || trialDays > maxTrialDays {
		return nil, apperror.NewValidationError(fmt.Sprintf("trial_days must be between 0 and %d", maxTrialDays))
	}

	if _, err := s.findForTenant(ctx, tenantId); err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		if _, err := s.CreateTrial(ctx, tenantId, trialDays); err != nil {
			return nil, err
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.SubscriptionRepository()
	plan, err := repo.FindOnePlan(ctx, specification.ByID{ID: planId}, specification.ActiveOnly{})
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, apperror.NewValidationError("Invalid or inactive subscription plan.", planId.String())
	}

	sub, err := repo.FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", tenantId.String())
	}

	previousPlan := sub.PlanId
	sub.PlanId = plan.Id
	sub.Plan = plan
	sub.BillingCycle = cycle
	if err := repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription plan: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("SUBSCRIPTION", "Subscription plan changed", map[string]interface{}{
		"tenant_id":     tenantId,
		"from_plan_id":  previousPlan,
		"to_plan_id":    plan.Id,
		"billing_cycle": cycle,
	})
	s.events.Publish(ctx, EventSubscriptionPlanChanged, map[string]interface{}{
		"subscription_id":  sub.Id,
		"tenant_id":        tenantId,
		"previous_plan_id": previousPlan,
		"plan_id":          plan.Id,
		"plan_name":        plan.Name,
		"billing_cycle":    cycle,
	})
	return sub, nil
}

// Cancel schedules cancellation at the end of the current period.
func (s *subscriptionService) Cancel(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	repo := uow.SubscriptionRepository()
	sub, err := repo.FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", tenantId.String())
	}
	if sub.CancelAtPeriodEnd {
		return sub, nil
	}

	if sub.StripeSubscriptionId != "" {
		if err := s.provider.CancelSubscription(ctx, sub.StripeSubscriptionId); err != nil {
			return nil, fmt.Errorf("failed to cancel at payment provider: %w", err)
		}
	}

	canceledAt := now()
	sub.CancelAtPeriodEnd = true
	sub.CanceledAt = &canceledAt
	if err := repo.UpdateSubscription(ctx, sub); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("SUBSCRIPTION", "Subscription set to cancel at period end", map[string]interface{}{
		"tenant_id":  tenantId,
		"period_end": sub.CurrentPeriodEnd,
	})
	s.events.Publish(ctx, EventSubscriptionCanceled, map[string]interface{}{
		"subscription_id": sub.Id,
		"tenant_id":       tenantId,
		"period_end":      sub.CurrentPeriodEnd,
	})
	return sub, nil
}

func (s *subscriptionService) RefreshUsage(ctx context.Context, tenantId uuid.UUID) (*entity.Subscription, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.refreshInTx(ctx, uow, tenantId)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.metrics.UsageRefreshesTotal.Inc()
	return sub, nil
}

// GetUsage refreshes the counters and evaluates limits in one transaction.
func (s *subscriptionService) GetUsage(ctx context.Context, tenantId uuid.UUID) (*dto.UsageResponse, error) {
	if _, err := s.GetOrCreateForTenant(ctx, tenantId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	sub, err := s.refreshInTx(ctx, uow, tenantId)
	if err != nil {
		return nil, err
	}
	exceeded := sub.CheckUsageLimits()

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	s.metrics.UsageRefreshesTotal.Inc()

	for resource := range exceeded {
		s.metrics.RecordLimitExceeded(resource)
	}
	if len(exceeded) > 0 {
		s.logger.Warn("USAGE", "Tenant is over plan limits", map[string]interface{}{
			"tenant_id": tenantId,
			"exceeded":  exceeded,
		})
	}

	var limits dto.UsageLimits
	if sub.Plan != nil {
		limits = dto.UsageLimits{
			Users:          sub.Plan.MaxUsers,
			Suppliers:      sub.Plan.MaxSuppliers,
			Customers:      sub.Plan.MaxCustomers,
			OrdersPerMonth: sub.Plan.MaxOrdersPerMonth,
		}
	}

	return &dto.UsageResponse{
		Subscription: *mapper.ToSubscriptionResponse(sub, now()),
		Usage: dto.UsageCounts{
			Users:           sub.CurrentUsers,
			Suppliers:       sub.CurrentSuppliers,
			Customers:       sub.CurrentCustomers,
			OrdersThisMonth: sub.CurrentMonthOrders,
		},
		Limits:         limits,
		ExceededLimits: mapper.ToUsageLimitResponses(exceeded),
	}, nil
}

func (s *subscriptionService) refreshInTx(ctx context.Context, uow unitofwork.UnitOfWork, tenantId uuid.UUID) (*entity.Subscription, error) {
	sub, err := uow.SubscriptionRepository().FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenantId})
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, apperror.NewNotFoundError("Subscription not found", tenantId.String())
	}

	usage := uow.UsageRepository()

	suppliers, err := usage.CountSuppliers(ctx, tenantId)
	if err != nil {
		return nil, fmt.Errorf("failed to count suppliers: %w", err)
	}
	customers, err := usage.CountCustomers(ctx, tenantId)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	orders, err := usage.CountOrdersSince(ctx, tenantId, monthStart(now()))
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var users int64
	if s.cfg.ScopeUserCountToTenant {
		users, err = usage.CountTenantUsers(ctx, tenantId)
	} else {
		users, err = usage.CountAllUsers(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	sub.CurrentUsers = int(users)
	sub.CurrentSuppliers = int(suppliers)
	sub.CurrentCustomers = int(customers)
	sub.CurrentMonthOrders = int(orders)

	if err := uow.SubscriptionRepository().UpdateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store usage counters: %w", err)
	}

	s.logger.Debug("USAGE", "Usage refreshed", map[string]interface{}{
		"tenant_id": tenantId,
		"users":     sub.CurrentUsers,
		"suppliers": sub.CurrentSuppliers,
		"customers": sub.CurrentCustomers,
		"orders":    sub.CurrentMonthOrders,
	})
	return sub, nil
}

func (s *subscriptionService) CheckFeatureAccess(ctx context.Context, tenantId uuid.UUID, featureName string) (*dto.FeatureAccessResponse, error) {
	if featureName == "" {
		return nil, apperror.NewValidationError("feature_name is required")
	}

	sub, err := s.GetOrCreateForTenant(ctx, tenantId)
	if err != nil {
		return nil, err
	}

	hasAccess := sub.CanUseFeature(featureName)
	reason := ""
	if !hasAccess {
		if !sub.IsActive() {
			reason = reasonInactive
		} else {
			reason = reasonNotInPlan
		}
	}
	s.metrics.RecordFeatureCheck(featureName, hasAccess)

	planName := ""
	if sub.Plan != nil {
		planName = sub.Plan.Name
	}

	return &dto.FeatureAccessResponse{
		FeatureName:        featureName,
		HasAccess:          hasAccess,
		Reason:             reason,
		SubscriptionStatus: string(sub.Status),
		PlanName:           planName,
	}, nil
}

// monthStart is the first instant of t's calendar month in UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

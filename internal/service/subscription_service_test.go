package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/testutil"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetOrCreateForTenantIsIdempotent(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	freezeClock(t, at)

	tenant := testutil.SeedTenant(t, f.db, "acme")

	first, err := f.subs.GetOrCreateForTenant(ctx, tenant.Id)
	require.NoError(t, err)
	second, err := f.subs.GetOrCreateForTenant(ctx, tenant.Id)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, entity.SubscriptionStatusTrialing, second.Status)
	assert.Equal(t, entity.BillingCycleMonthly, second.BillingCycle)
	assert.True(t, second.CurrentPeriodStart.Equal(at))
	assert.True(t, second.CurrentPeriodEnd.Equal(at.AddDate(0, 0, 14)))
	require.NotNil(t, second.TrialEnd)
	assert.True(t, second.TrialEnd.Equal(at.AddDate(0, 0, 14)))

	var count int64
	require.NoError(t, f.db.Model(&model.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, []string{EventSubscriptionTrialStarted}, f.events.types())
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.TrialsCreatedTotal))
}

func TestCreateTrialCreatesDefaultFreePlan(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	tenant := testutil.SeedTenant(t, f.db, "acme")

	sub, err := f.subs.CreateTrial(ctx, tenant.Id, 14)
	require.NoError(t, err)
	require.NotNil(t, sub.Plan)

	plan := sub.Plan
	assert.Equal(t, "Free Trial", plan.Name)
	assert.Equal(t, entity.PlanTierFree, plan.Tier)
	assert.True(t, plan.MonthlyPrice.IsZero())
	assert.Nil(t, plan.MaxUsers)
	require.NotNil(t, plan.MaxSuppliers)
	assert.Equal(t, 5, *plan.MaxSuppliers)
	assert.Equal(t, 10, *plan.MaxCustomers)
	assert.Equal(t, 50, *plan.MaxOrdersPerMonth)
	assert.False(t, plan.HasAdvancedReporting)
	assert.True(t, plan.HasAiAssistant)

	plans, err := f.plans.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, plan.Id, plans[0].Id)
}

func TestCreateTrialPlanSelection(t *testing.T) {
	tests := []struct {
		name     string
		seed     func(t *testing.T, f *fixture) uuid.UUID
		wantName string
	}{
		{
			name: "existing free tier",
			seed: func(t *testing.T, f *fixture) uuid.UUID {
				testutil.SeedPlan(t, f.db, "Basic", "basic", "29")
				return testutil.SeedPlan(t, f.db, "Starter", "free", "0").Id
			},
			wantName: "Starter",
		},
		{
			name: "cheapest active plan when the default name is taken",
			seed: func(t *testing.T, f *fixture) uuid.UUID {
				testutil.SeedPlan(t, f.db, "Free Trial", "professional", "79")
				return testutil.SeedPlan(t, f.db, "Basic", "basic", "29").Id
			},
			wantName: "Basic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, defaultBillingConfig())
			want := tt.seed(t, f)
			tenant := testutil.SeedTenant(t, f.db, "acme")

			sub, err := f.subs.CreateTrial(context.Background(), tenant.Id, 7)
			require.NoError(t, err)
			assert.Equal(t, want, sub.PlanId)
			assert.Equal(t, tt.wantName, sub.Plan.Name)
		})
	}
}

func TestCreateTrialErrors(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()

	_, err := f.subs.CreateTrial(ctx, uuid.New(), 14)
	assert.True(t, apperror.IsNotFound(err))

	tenant := testutil.SeedTenant(t, f.db, "acme")
	_, err = f.subs.CreateTrial(ctx, tenant.Id, -1)
	assert.True(t, apperror.IsValidation(err))
	_, err = f.subs.CreateTrial(ctx, tenant.Id, 366)
	assert.True(t, apperror.IsValidation(err))
}

func TestCreateTrialReturnsExistingSubscription(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	tenant := testutil.SeedTenant(t, f.db, "acme")

	first, err := f.subs.CreateTrial(ctx, tenant.Id, 14)
	require.NoError(t, err)
	again, err := f.subs.CreateTrial(ctx, tenant.Id, 30)
	require.NoError(t, err)

	assert.Equal(t, first.Id, again.Id)
	assert.True(t, again.CurrentPeriodEnd.Equal(first.CurrentPeriodEnd))
}

func TestChangePlanKeepsPeriodAndTrial(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	freezeClock(t, at)

	tenant := testutil.SeedTenant(t, f.db, "acme")
	basic := testutil.SeedPlan(t, f.db, "Basic", "basic", "29")

	trial, err := f.subs.GetOrCreateForTenant(ctx, tenant.Id)
	require.NoError(t, err)

	changed, err := f.subs.ChangePlan(ctx, tenant.Id, &dto.CreateSubscriptionRequest{
		PlanId:       basic.Id.String(),
		BillingCycle: "yearly",
	})
	require.NoError(t, err)

	assert.Equal(t, trial.Id, changed.Id)
	assert.Equal(t, basic.Id, changed.PlanId)
	assert.Equal(t, entity.BillingCycleYearly, changed.BillingCycle)
	assert.Equal(t, entity.SubscriptionStatusTrialing, changed.Status)
	assert.True(t, changed.CurrentPeriodStart.Equal(trial.CurrentPeriodStart))
	assert.True(t, changed.CurrentPeriodEnd.Equal(trial.CurrentPeriodEnd))
	assert.Equal(t, []string{EventSubscriptionTrialStarted, EventSubscriptionPlanChanged}, f.events.types())
}

func TestChangePlanRejectsUnknownOrInactivePlan(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	tenant := testutil.SeedTenant(t, f.db, "acme")
	retired := testutil.SeedPlan(t, f.db, "Legacy", "basic", "9", func(p *model.SubscriptionPlan) {
		p.IsActive = false
	})

	for _, planId := range []string{uuid.NewString(), retired.Id.String()} {
		_, err := f.subs.ChangePlan(ctx, tenant.Id, &dto.CreateSubscriptionRequest{PlanId: planId})
		require.Error(t, err)
		assert.True(t, apperror.IsValidation(err))
	}

	// The trial created on the way stays in place
	sub, err := f.subs.GetOrCreateForTenant(ctx, tenant.Id)
	require.NoError(t, err)
	assert.NotEqual(t, retired.Id, sub.PlanId)
	assert.Equal(t, []string{EventSubscriptionTrialStarted}, f.events.types())
}

func TestChangePlanValidatesRequest(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	tenant := testutil.SeedTenant(t, f.db, "acme")
	days := 400

	tests := []dto.CreateSubscriptionRequest{
		{PlanId: "not-a-uuid"},
		{PlanId: uuid.NewString(), BillingCycle: "weekly"},
		{PlanId: uuid.NewString(), TrialDays: &days},
	}
	for _, req := range tests {
		req := req
		_, err := f.subs.ChangePlan(context.Background(), tenant.Id, &req)
		assert.True(t, apperror.IsValidation(err), "request %+v", req)
	}
}

func TestCancelSchedulesEndOfPeriod(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	freezeClock(t, at)

	_, err := f.subs.Cancel(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))

	tenant := testutil.SeedTenant(t, f.db, "acme")
	sub, err := f.subs.GetOrCreateForTenant(ctx, tenant.Id)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&model.Subscription{}).Where("id = ?", sub.Id).
		Update("stripe_subscription_id", "sub_123").Error)

	canceled, err := f.subs.Cancel(ctx, tenant.Id)
	require.NoError(t, err)
	assert.True(t, canceled.CancelAtPeriodEnd)
	require.NotNil(t, canceled.CanceledAt)
	assert.True(t, canceled.CanceledAt.Equal(at))
	assert.Equal(t, entity.SubscriptionStatusTrialing, canceled.Status)
	assert.True(t, canceled.IsActive())

	again, err := f.subs.Cancel(ctx, tenant.Id)
	require.NoError(t, err)
	assert.True(t, again.CancelAtPeriodEnd)

	assert.Equal(t, []string{"sub_123"}, f.provider.canceled)
	assert.Equal(t, []string{EventSubscriptionTrialStarted, EventSubscriptionCanceled}, f.events.types())
}

func TestGetUsageCountsTenantResources(t *testing.T) {
	at := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		scoped    bool
		wantUsers int
	}{
		{name: "global user count", scoped: false, wantUsers: 3},
		{name: "tenant user count", scoped: true, wantUsers: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultBillingConfig()
			cfg.ScopeUserCountToTenant = tt.scoped
			f := newFixture(t, cfg)
			freezeClock(t, at)
			ctx := context.Background()

			testutil.SeedPlan(t, f.db, "Starter", "free", "0", func(p *model.SubscriptionPlan) {
				p.MaxSuppliers = entity.Limit(2)
				p.MaxCustomers = entity.Limit(0)
			})
			acme := testutil.SeedTenant(t, f.db, "acme")
			other := testutil.SeedTenant(t, f.db, "other")
			require.NoError(t, f.db.Create(&model.User{Email: "loose@example.com", FullName: "Loose", IsActive: true}).Error)

			testutil.SeedSuppliers(t, f.db, acme.Id, 3)
			testutil.SeedSuppliers(t, f.db, other.Id, 4)
			testutil.SeedOrders(t, f.db, acme.Id, 4, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
			testutil.SeedOrders(t, f.db, acme.Id, 2, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))

			usage, err := f.subs.GetUsage(ctx, acme.Id)
			require.NoError(t, err)

			assert.Equal(t, dto.UsageCounts{Users: tt.wantUsers, Suppliers: 3, Customers: 0, OrdersThisMonth: 4}, usage.Usage)
			require.NotNil(t, usage.Limits.Suppliers)
			assert.Equal(t, 2, *usage.Limits.Suppliers)
			assert.Nil(t, usage.Limits.Users)

			assert.Equal(t, map[string]dto.UsageLimitResponse{
				entity.ResourceSuppliers: {Current: 3, Limit: 2, Exceeded: true},
			}, usage.ExceededLimits)
			assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.LimitsExceededTotal.WithLabelValues(entity.ResourceSuppliers)))

			stored, err := f.subs.RefreshUsage(ctx, acme.Id)
			require.NoError(t, err)
			assert.Equal(t, 3, stored.CurrentSuppliers)
			assert.Equal(t, 4, stored.CurrentMonthOrders)
		})
	}
}

func TestCheckFeatureAccess(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()

	testutil.SeedPlan(t, f.db, "Starter", "free", "0", func(p *model.SubscriptionPlan) {
		p.HasApiAccess = false
	})
	tenant := testutil.SeedTenant(t, f.db, "acme")

	_, err := f.subs.CheckFeatureAccess(ctx, tenant.Id, "")
	assert.True(t, apperror.IsValidation(err))

	allowed, err := f.subs.CheckFeatureAccess(ctx, tenant.Id, entity.FeatureAiAssistant)
	require.NoError(t, err)
	assert.True(t, allowed.HasAccess)
	assert.Empty(t, allowed.Reason)
	assert.Equal(t, "trialing", allowed.SubscriptionStatus)
	assert.Equal(t, "Starter", allowed.PlanName)

	denied, err := f.subs.CheckFeatureAccess(ctx, tenant.Id, entity.FeatureApiAccess)
	require.NoError(t, err)
	assert.False(t, denied.HasAccess)
	assert.Equal(t, "Feature not included in current plan", denied.Reason)

	unknown, err := f.subs.CheckFeatureAccess(ctx, tenant.Id, "time_travel")
	require.NoError(t, err)
	assert.False(t, unknown.HasAccess)

	require.NoError(t, f.db.Model(&model.Subscription{}).Where("tenant_id = ?", tenant.Id).
		Update("status", "past_due").Error)
	inactive, err := f.subs.CheckFeatureAccess(ctx, tenant.Id, entity.FeatureAiAssistant)
	require.NoError(t, err)
	assert.False(t, inactive.HasAccess)
	assert.Equal(t, "Subscription is not active", inactive.Reason)

	noTenant := NoTenantFeatureResponse(entity.FeatureAiAssistant)
	assert.False(t, noTenant.HasAccess)
	assert.Equal(t, "No tenant found", noTenant.Reason)
}

func TestCreateTrialWithoutUsablePlan(t *testing.T) {
	t.Run("free plan name held by an inactive plan", func(t *testing.T) {
		f := newFixture(t, defaultBillingConfig())
		testutil.SeedPlan(t, f.db, defaultFreePlanName, "professional", "79.00", func(p *model.SubscriptionPlan) {
			p.IsActive = false
		})
		tenant := testutil.SeedTenant(t, f.db, "acme")

		_, err := f.subs.CreateTrial(context.Background(), tenant.Id, 14)
		require.Error(t, err)
		assert.True(t, apperror.IsConfiguration(err))
		assert.Empty(t, f.events.types())
	})

	t.Run("default free plan cannot be created", func(t *testing.T) {
		f := newFixture(t, defaultBillingConfig())
		tenant := testutil.SeedTenant(t, f.db, "acme")
		require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:reject_plans", func(db *gorm.DB) {
			if db.Statement.Table == "subscription_plans" {
				_ = db.AddError(errors.New("plans are read-only"))
			}
		}))

		_, err := f.subs.CreateTrial(context.Background(), tenant.Id, 14)
		require.Error(t, err)
		assert.True(t, apperror.IsConfiguration(err))

		var count int64
		require.NoError(t, f.db.Model(&model.Subscription{}).Count(&count).Error)
		assert.Zero(t, count)
	})
}

package implementation_test

import (
	"context"
	"testing"
	"time"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
	"projectmeats-be/internal/repository/implementation"
	"projectmeats-be/internal/repository/specification"
	"projectmeats-be/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCreateAndFindOrdered(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()

	pro := entity.NewPlan("Professional", entity.PlanTierProfessional, decimal.RequireFromString("79.00"))
	pro.YearlyPrice = decimal.NewNullDecimal(decimal.RequireFromString("790.00"))
	pro.Features = []string{"Everything in Basic", "API access"}
	basic := entity.NewPlan("Basic", entity.PlanTierBasic, decimal.RequireFromString("29.00"))
	basic.MaxSuppliers = entity.Limit(25)
	retired := entity.NewPlan("Legacy", entity.PlanTierBasic, decimal.RequireFromString("9.00"))
	retired.IsActive = false

	for _, p := range []*entity.Plan{pro, basic, retired} {
		require.NoError(t, repo.CreatePlan(ctx, p))
		assert.NotEqual(t, uuid.Nil, p.Id)
	}

	plans, err := repo.FindAllPlans(ctx, specification.ActiveOnly{}, specification.OrderBy{Field: "monthly_price"})
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.Equal(t, "Professional", plans[1].Name)

	assert.True(t, plans[0].MonthlyPrice.Equal(decimal.RequireFromString("29")))
	assert.False(t, plans[0].YearlyPrice.Valid)
	require.NotNil(t, plans[0].MaxSuppliers)
	assert.Equal(t, 25, *plans[0].MaxSuppliers)
	assert.Nil(t, plans[0].MaxUsers)

	assert.True(t, plans[1].YearlyPrice.Valid)
	assert.True(t, plans[1].YearlyPrice.Decimal.Equal(decimal.RequireFromString("790")))
	assert.Equal(t, []string{"Everything in Basic", "API access"}, plans[1].Features)
}

func TestCreatePlanRejectsNegativePrice(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	err := repo.CreatePlan(context.Background(), entity.NewPlan("Broken", entity.PlanTierBasic, decimal.NewFromInt(-1)))
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&model.SubscriptionPlan{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFindOnePlanMissingReturnsNil(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)

	plan, err := repo.FindOnePlan(context.Background(), specification.ByID{ID: uuid.New()})
	assert.NoError(t, err)
	assert.Nil(t, plan)
}

func TestSubscriptionRoundTripPreservesState(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, db, "acme")
	planRow := testutil.SeedPlan(t, db, "Free Trial", "free", "0")

	now := time.Date(2026, 3, 10, 12, 30, 15, 123456000, time.UTC)
	plan := &entity.Plan{Id: planRow.Id}
	sub := entity.NewTrialSubscription(tenant.Id, plan, now, 14)
	sub.CurrentUsers = 3
	sub.CurrentSuppliers = 7
	sub.CurrentCustomers = 11
	sub.CurrentMonthOrders = 42
	require.NoError(t, repo.CreateSubscription(ctx, sub))
	require.NotEqual(t, uuid.Nil, sub.Id)

	loaded, err := repo.FindOneSubscription(ctx, specification.ByTenantID{TenantID: tenant.Id})
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, sub.Id, loaded.Id)
	assert.Equal(t, entity.SubscriptionStatusTrialing, loaded.Status)
	assert.True(t, loaded.CurrentPeriodStart.Equal(now))
	assert.True(t, loaded.CurrentPeriodEnd.Equal(now.AddDate(0, 0, 14)))
	require.NotNil(t, loaded.TrialEnd)
	assert.True(t, loaded.TrialEnd.Equal(now.AddDate(0, 0, 14)))
	assert.Nil(t, loaded.CanceledAt)
	assert.Equal(t, 3, loaded.CurrentUsers)
	assert.Equal(t, 7, loaded.CurrentSuppliers)
	assert.Equal(t, 11, loaded.CurrentCustomers)
	assert.Equal(t, 42, loaded.CurrentMonthOrders)

	require.NotNil(t, loaded.Plan)
	assert.Equal(t, "Free Trial", loaded.Plan.Name)
}

func TestSubscriptionTenantIsUnique(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, db, "acme")
	planRow := testutil.SeedPlan(t, db, "Free Trial", "free", "0")
	now := time.Now().UTC()

	first := entity.NewTrialSubscription(tenant.Id, &entity.Plan{Id: planRow.Id}, now, 14)
	require.NoError(t, repo.CreateSubscription(ctx, first))

	second := entity.NewTrialSubscription(tenant.Id, &entity.Plan{Id: planRow.Id}, now, 14)
	assert.Error(t, repo.CreateSubscription(ctx, second))
}

func TestUpdateSubscriptionRejectsInvertedPeriod(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, db, "acme")
	planRow := testutil.SeedPlan(t, db, "Free Trial", "free", "0")
	now := time.Now().UTC()

	sub := entity.NewTrialSubscription(tenant.Id, &entity.Plan{Id: planRow.Id}, now, 14)
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	sub.CurrentPeriodEnd = sub.CurrentPeriodStart.Add(-time.Hour)
	assert.Error(t, repo.UpdateSubscription(ctx, sub))
}

func TestUpdateSubscriptionSwitchesPlan(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := implementation.NewSubscriptionRepository(db)
	ctx := context.Background()

	tenant := testutil.SeedTenant(t, db, "acme")
	free := testutil.SeedPlan(t, db, "Free Trial", "free", "0")
	basic := testutil.SeedPlan(t, db, "Basic", "basic", "29")

	sub := entity.NewTrialSubscription(tenant.Id, &entity.Plan{Id: free.Id}, time.Now().UTC(), 14)
	require.NoError(t, repo.CreateSubscription(ctx, sub))

	sub.PlanId = basic.Id
	sub.Plan = nil
	require.NoError(t, repo.UpdateSubscription(ctx, sub))

	loaded, err := repo.FindOneSubscription(ctx, specification.ByID{ID: sub.Id})
	require.NoError(t, err)
	assert.Equal(t, basic.Id, loaded.PlanId)
	assert.Equal(t, "Basic", loaded.Plan.Name)

	var planCount int64
	require.NoError(t, db.Model(&model.SubscriptionPlan{}).Count(&planCount).Error)
	assert.Equal(t, int64(2), planCount)
}

package service

import (
	"context"
	"testing"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
	"projectmeats-be/internal/pkg/apperror"
	"projectmeats-be/internal/testutil"

	"github.com/google/uuid"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListActivePlansUsesCache(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()

	testutil.SeedPlan(t, f.db, "Professional", "professional", "79")
	testutil.SeedPlan(t, f.db, "Basic", "basic", "29")
	testutil.SeedPlan(t, f.db, "Legacy", "basic", "9", func(p *model.SubscriptionPlan) {
		p.IsActive = false
	})

	plans, err := f.plans.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Basic", plans[0].Name)
	assert.Equal(t, "Professional", plans[1].Name)

	// A row written behind the service's back is invisible until invalidation
	testutil.SeedPlan(t, f.db, "Starter", "free", "0")
	cached, err := f.plans.ListActivePlans(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	f.plans.InvalidateCache(ctx)
	fresh, err := f.plans.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 3)
	assert.Equal(t, "Starter", fresh[0].Name)

	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.PlanCacheLookupTotal.WithLabelValues("hit")))
	assert.Equal(t, float64(2), promtest.ToFloat64(f.metrics.PlanCacheLookupTotal.WithLabelValues("miss")))
}

func TestSavePlanUpsertsByName(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()

	basic := entity.NewPlan("Basic", entity.PlanTierBasic, decimal.RequireFromString("29.00"))
	basic.MaxUsers = entity.Limit(5)
	created, err := f.plans.SavePlan(ctx, basic)
	require.NoError(t, err)
	assert.True(t, created)

	_, err = f.plans.ListActivePlans(ctx)
	require.NoError(t, err)

	update := entity.NewPlan("Basic", entity.PlanTierBasic, decimal.RequireFromString("39.00"))
	update.MaxUsers = entity.Limit(10)
	created, err = f.plans.SavePlan(ctx, update)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, basic.Id, update.Id)

	plans, err := f.plans.ListActivePlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.True(t, plans[0].MonthlyPrice.Equal(decimal.RequireFromString("39")))
	assert.Equal(t, 10, *plans[0].MaxUsers)
}

func TestGetPlan(t *testing.T) {
	f := newFixture(t, defaultBillingConfig())
	ctx := context.Background()
	row := testutil.SeedPlan(t, f.db, "Basic", "basic", "29")

	plan, err := f.plans.GetPlan(ctx, row.Id)
	require.NoError(t, err)
	assert.Equal(t, "Basic", plan.Name)

	_, err = f.plans.GetPlan(ctx, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

package cache

import (
	"context"
	"testing"
	"time"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePlans() []*entity.Plan {
	basic := entity.NewPlan("Basic", entity.PlanTierBasic, decimal.RequireFromString("29.00"))
	basic.Id = uuid.New()
	basic.YearlyPrice = decimal.NewNullDecimal(decimal.RequireFromString("290.00"))
	basic.MaxSuppliers = entity.Limit(25)
	basic.Features = []string{"Up to 5 users"}
	return []*entity.Plan{basic}
}

func TestMemoryPlanCache(t *testing.T) {
	c := NewMemoryPlanCache(time.Minute)
	ctx := context.Background()

	_, ok := c.GetActivePlans(ctx)
	assert.False(t, ok)

	plans := samplePlans()
	c.SetActivePlans(ctx, plans)

	got, ok := c.GetActivePlans(ctx)
	require.True(t, ok)
	assert.Same(t, plans[0], got[0])

	c.Invalidate(ctx)
	_, ok = c.GetActivePlans(ctx)
	assert.False(t, ok)
}

func TestRedisPlanCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisPlanCache(rdb, time.Minute, logger.NewNopLogger())
	ctx := context.Background()

	_, ok := c.GetActivePlans(ctx)
	assert.False(t, ok)

	plans := samplePlans()
	c.SetActivePlans(ctx, plans)
	assert.True(t, mr.Exists(activePlansKey))

	got, ok := c.GetActivePlans(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, plans[0].Id, got[0].Id)
	assert.True(t, got[0].MonthlyPrice.Equal(plans[0].MonthlyPrice))
	assert.True(t, got[0].YearlyPrice.Valid)
	assert.Equal(t, 25, *got[0].MaxSuppliers)
	assert.Equal(t, []string{"Up to 5 users"}, got[0].Features)

	mr.FastForward(2 * time.Minute)
	_, ok = c.GetActivePlans(ctx)
	assert.False(t, ok)
}

func TestRedisPlanCacheDropsCorruptEntry(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisPlanCache(rdb, time.Minute, logger.NewNopLogger())

	require.NoError(t, mr.Set(activePlansKey, "not-json"))

	_, ok := c.GetActivePlans(context.Background())
	assert.False(t, ok)
	assert.False(t, mr.Exists(activePlansKey))
}

func TestRedisPlanCacheUnavailableIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisPlanCache(rdb, time.Minute, logger.NewNopLogger())
	mr.Close()

	_, ok := c.GetActivePlans(context.Background())
	assert.False(t, ok)
	assert.NotPanics(t, func() { c.SetActivePlans(context.Background(), samplePlans()) })
}

package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fullPlan() *Plan {
	p := NewPlan("Professional", PlanTierProfessional, decimal.NewFromInt(79))
	p.HasApiAccess = true
	p.HasPrioritySupport = true
	p.HasCustomBranding = true
	return p
}

func TestIsActiveForEveryStatus(t *testing.T) {
	want := map[SubscriptionStatus]bool{
		SubscriptionStatusActive:            true,
		SubscriptionStatusTrialing:          true,
		SubscriptionStatusPastDue:           false,
		SubscriptionStatusCanceled:          false,
		SubscriptionStatusIncomplete:        false,
		SubscriptionStatusIncompleteExpired: false,
		SubscriptionStatusUnpaid:            false,
	}
	require.Len(t, AllSubscriptionStatuses, 7)

	for _, status := range AllSubscriptionStatuses {
		t.Run(string(status), func(t *testing.T) {
			sub := &Subscription{Status: status, Plan: fullPlan()}
			assert.Equal(t, want[status], sub.IsActive())
		})
	}
}

func TestCanUseFeatureDeniedWhenInactive(t *testing.T) {
	for _, status := range AllSubscriptionStatuses {
		sub := &Subscription{Status: status, Plan: fullPlan()}
		if sub.IsActive() {
			continue
		}
		for _, feature := range KnownFeatures {
			assert.False(t, sub.CanUseFeature(feature), "%s/%s", status, feature)
		}
	}
}

func TestCanUseFeatureFollowsPlanFlags(t *testing.T) {
	plan := NewPlan("Free Trial", PlanTierFree, decimal.Zero)
	plan.HasAdvancedReporting = false
	sub := &Subscription{Status: SubscriptionStatusActive, Plan: plan}

	assert.True(t, sub.CanUseFeature(FeatureAiAssistant))
	assert.True(t, sub.CanUseFeature(FeatureDocumentProcessing))
	assert.False(t, sub.CanUseFeature(FeatureAdvancedReporting))
	assert.False(t, sub.CanUseFeature(FeatureApiAccess))
	assert.False(t, sub.CanUseFeature(FeaturePrioritySupport))
	assert.False(t, sub.CanUseFeature(FeatureCustomBranding))
}

func TestCanUseFeatureUnknownNameDenied(t *testing.T) {
	sub := &Subscription{Status: SubscriptionStatusActive, Plan: fullPlan()}
	assert.False(t, sub.CanUseFeature("unknown_feature"))
	assert.False(t, sub.CanUseFeature(""))
}

func TestCheckUsageLimits(t *testing.T) {
	t.Run("exceeded supplier limit is reported", func(t *testing.T) {
		plan := fullPlan()
		plan.MaxSuppliers = Limit(5)
		sub := &Subscription{Plan: plan, CurrentSuppliers: 6}

		result := sub.CheckUsageLimits()

		assert.Equal(t, map[string]UsageLimitStatus{
			ResourceSuppliers: {Current: 6, Limit: 5, Exceeded: true},
		}, result)
	})

	t.Run("unlimited supplier limit is omitted", func(t *testing.T) {
		sub := &Subscription{Plan: fullPlan(), CurrentSuppliers: 1000}
		_, ok := sub.CheckUsageLimits()[ResourceSuppliers]
		assert.False(t, ok)
	})

	t.Run("at the limit is not exceeded", func(t *testing.T) {
		plan := fullPlan()
		plan.MaxCustomers = Limit(10)
		sub := &Subscription{Plan: plan, CurrentCustomers: 10}
		assert.Empty(t, sub.CheckUsageLimits())
	})

	t.Run("enterprise with many users", func(t *testing.T) {
		plan := fullPlan()
		plan.Tier = PlanTierEnterprise
		plan.MaxUsers = nil
		sub := &Subscription{Plan: plan, CurrentUsers: 500}
		assert.Equal(t, map[string]UsageLimitStatus{}, sub.CheckUsageLimits())
	})

	t.Run("every resource over", func(t *testing.T) {
		plan := fullPlan()
		plan.MaxUsers = Limit(2)
		plan.MaxSuppliers = Limit(5)
		plan.MaxCustomers = Limit(10)
		plan.MaxOrdersPerMonth = Limit(25)
		sub := &Subscription{
			Plan:               plan,
			CurrentUsers:       3,
			CurrentSuppliers:   6,
			CurrentCustomers:   11,
			CurrentMonthOrders: 26,
		}
		result := sub.CheckUsageLimits()
		assert.Len(t, result, 4)
		assert.Equal(t, UsageLimitStatus{Current: 26, Limit: 25, Exceeded: true}, result[ResourceOrders])
	})
}

func TestNewTrialSubscription(t *testing.T) {
	plan := NewPlan("Free Trial", PlanTierFree, decimal.Zero)
	plan.Id = uuid.New()
	tenantId := uuid.New()

	sub := NewTrialSubscription(tenantId, plan, fixedNow, 14)

	assert.Equal(t, SubscriptionStatusTrialing, sub.Status)
	assert.Equal(t, plan.Id, sub.PlanId)
	require.NotNil(t, sub.TrialStart)
	require.NotNil(t, sub.TrialEnd)
	assert.Equal(t, 14*24*time.Hour, sub.TrialEnd.Sub(*sub.TrialStart))
	assert.Equal(t, fixedNow, sub.CurrentPeriodStart)
	assert.Equal(t, *sub.TrialEnd, sub.CurrentPeriodEnd)
	assert.Equal(t, 1, sub.CurrentUsers)
	assert.NoError(t, sub.Validate())
}

func TestZeroDayTrialKeepsPeriodNonEmpty(t *testing.T) {
	plan := NewPlan("Free Trial", PlanTierFree, decimal.Zero)
	sub := NewTrialSubscription(uuid.New(), plan, fixedNow, 0)

	require.NoError(t, sub.Validate())
	assert.False(t, sub.IsTrial(fixedNow))
	assert.Equal(t, fixedNow.AddDate(0, 1, 0), sub.CurrentPeriodEnd)
}

func TestTrialAndRenewalDays(t *testing.T) {
	plan := NewPlan("Free Trial", PlanTierFree, decimal.Zero)
	sub := NewTrialSubscription(uuid.New(), plan, fixedNow, 14)

	assert.True(t, sub.IsTrial(fixedNow))
	assert.Equal(t, 14, sub.TrialDaysRemaining(fixedNow))
	assert.Equal(t, 13, sub.TrialDaysRemaining(fixedNow.Add(time.Hour)))
	assert.Equal(t, 14, sub.DaysUntilRenewal(fixedNow))

	after := fixedNow.AddDate(0, 0, 20)
	assert.False(t, sub.IsTrial(after))
	assert.Equal(t, 0, sub.TrialDaysRemaining(after))
	assert.Equal(t, 0, sub.DaysUntilRenewal(after))

	sub.Status = SubscriptionStatusActive
	assert.False(t, sub.IsTrial(fixedNow))
	assert.Equal(t, 0, sub.TrialDaysRemaining(fixedNow))
}

func TestIsTrialRequiresTrialEnd(t *testing.T) {
	sub := &Subscription{Status: SubscriptionStatusTrialing}
	assert.False(t, sub.IsTrial(fixedNow))
}

func TestValidateRejectsInvertedPeriod(t *testing.T) {
	sub := &Subscription{
		Status:             SubscriptionStatusActive,
		CurrentPeriodStart: fixedNow,
		CurrentPeriodEnd:   fixedNow,
	}
	assert.Error(t, sub.Validate())

	sub.CurrentPeriodEnd = fixedNow.Add(time.Second)
	assert.NoError(t, sub.Validate())

	sub.Status = "expired"
	assert.Error(t, sub.Validate())
}

func TestLimitsIncludesUnlimited(t *testing.T) {
	plan := fullPlan()
	plan.MaxSuppliers = Limit(5)
	sub := &Subscription{Plan: plan}

	limits := sub.Limits()
	require.Len(t, limits, 4)
	assert.Nil(t, limits[ResourceUsers])
	assert.Equal(t, 5, *limits[ResourceSuppliers])
}

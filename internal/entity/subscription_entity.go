package entity

import (
	"time"

	"projectmeats-be/internal/pkg/apperror"

	"github.com/google/uuid"
)

type SubscriptionStatus string
type BillingCycle string

const (
	SubscriptionStatusActive            SubscriptionStatus = "active"
	SubscriptionStatusPastDue           SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled          SubscriptionStatus = "canceled"
	SubscriptionStatusIncomplete        SubscriptionStatus = "incomplete"
	SubscriptionStatusIncompleteExpired SubscriptionStatus = "incomplete_expired"
	SubscriptionStatusTrialing          SubscriptionStatus = "trialing"
	SubscriptionStatusUnpaid            SubscriptionStatus = "unpaid"

	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

var AllSubscriptionStatuses = []SubscriptionStatus{
	SubscriptionStatusActive,
	SubscriptionStatusPastDue,
	SubscriptionStatusCanceled,
	SubscriptionStatusIncomplete,
	SubscriptionStatusIncompleteExpired,
	SubscriptionStatusTrialing,
	SubscriptionStatusUnpaid,
}

func (s SubscriptionStatus) Valid() bool {
	for _, status := range AllSubscriptionStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Usage resource keys
const (
	ResourceUsers     = "users"
	ResourceSuppliers = "suppliers"
	ResourceCustomers = "customers"
	ResourceOrders    = "orders"
)

type UsageLimitStatus struct {
	Current  int  `json:"current"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}

type Subscription struct {
	Id                   uuid.UUID
	TenantId             uuid.UUID
	PlanId               uuid.UUID
	Plan                 *Plan
	StripeSubscriptionId string
	StripeCustomerId     string
	Status               SubscriptionStatus
	BillingCycle         BillingCycle
	BillingCycleAnchor   time.Time
	CurrentPeriodStart   time.Time
	CurrentPeriodEnd     time.Time
	TrialStart           *time.Time
	TrialEnd             *time.Time
	CanceledAt           *time.Time
	CancelAtPeriodEnd    bool

	// Cached counters, only written by a usage refresh
	CurrentUsers       int
	CurrentSuppliers   int
	CurrentCustomers   int
	CurrentMonthOrders int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTrialSubscription builds a trialing subscription whose period and trial
// window both span [now, now+trialDays]. A zero-day trial ends at once and
// gets a one-month period so the period is never empty.
func NewTrialSubscription(tenantId uuid.UUID, plan *Plan, now time.Time, trialDays int) *Subscription {
	trialStart := now
	trialEnd := now.AddDate(0, 0, trialDays)
	end := trialEnd
	if trialDays == 0 {
		end = now.AddDate(0, 1, 0)
	}
	return &Subscription{
		TenantId:           tenantId,
		PlanId:             plan.Id,
		Plan:               plan,
		Status:             SubscriptionStatusTrialing,
		BillingCycle:       BillingCycleMonthly,
		BillingCycleAnchor: now,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   end,
		TrialStart:         &trialStart,
		TrialEnd:           &trialEnd,
		CurrentUsers:       1,
	}
}

func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive || s.Status == SubscriptionStatusTrialing
}

func (s *Subscription) IsTrial(now time.Time) bool {
	return s.Status == SubscriptionStatusTrialing && s.TrialEnd != nil && now.Before(*s.TrialEnd)
}

func (s *Subscription) TrialDaysRemaining(now time.Time) int {
	if !s.IsTrial(now) {
		return 0
	}
	return wholeDays(s.TrialEnd.Sub(now))
}

func (s *Subscription) DaysUntilRenewal(now time.Time) int {
	return wholeDays(s.CurrentPeriodEnd.Sub(now))
}

// CanUseFeature denies everything while inactive, then defers to the plan flags.
func (s *Subscription) CanUseFeature(name string) bool {
	if !s.IsActive() || s.Plan == nil {
		return false
	}
	return s.Plan.HasFeature(name)
}

// CheckUsageLimits returns only the resources whose cached count is over a
// finite plan limit. A missing key means "within limit or unlimited".
func (s *Subscription) CheckUsageLimits() map[string]UsageLimitStatus {
	exceeded := make(map[string]UsageLimitStatus)
	if s.Plan == nil {
		return exceeded
	}

	for resource, pair := range s.usagePairs() {
		if pair.limit == nil {
			continue
		}
		if pair.current > *pair.limit {
			exceeded[resource] = UsageLimitStatus{Current: pair.current, Limit: *pair.limit, Exceeded: true}
		}
	}
	return exceeded
}

// Limits returns every resource limit, nil meaning unlimited.
func (s *Subscription) Limits() map[string]*int {
	limits := make(map[string]*int, 4)
	for resource, pair := range s.usagePairs() {
		limits[resource] = pair.limit
	}
	return limits
}

func (s *Subscription) Validate() error {
	if !s.Status.Valid() {
		return apperror.NewValidationError("invalid subscription status", string(s.Status))
	}
	if !s.CurrentPeriodEnd.After(s.CurrentPeriodStart) {
		return apperror.NewValidationError("current_period_end must be after current_period_start")
	}
	return nil
}

type usagePair struct {
	current int
	limit   *int
}

func (s *Subscription) usagePairs() map[string]usagePair {
	var p Plan
	if s.Plan != nil {
		p = *s.Plan
	}
	return map[string]usagePair{
		ResourceUsers:     {s.CurrentUsers, p.MaxUsers},
		ResourceSuppliers: {s.CurrentSuppliers, p.MaxSuppliers},
		ResourceCustomers: {s.CurrentCustomers, p.MaxCustomers},
		ResourceOrders:    {s.CurrentMonthOrders, p.MaxOrdersPerMonth},
	}
}

func wholeDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

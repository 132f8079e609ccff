package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateSubscriptionRequest selects a plan for the caller's tenant.
// trial_days only applies when the tenant has no subscription yet.
type CreateSubscriptionRequest struct {
	PlanId       string `json:"plan_id" validate:"required,uuid"`
	BillingCycle string `json:"billing_cycle" validate:"omitempty,oneof=monthly yearly"`
	TrialDays    *int   `json:"trial_days" validate:"omitempty,min=0,max=365"`
}

type StartPaidSubscriptionRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UsageLimitResponse struct {
	Current  int  `json:"current"`
	Limit    int  `json:"limit"`
	Exceeded bool `json:"exceeded"`
}

type SubscriptionResponse struct {
	Id                   uuid.UUID                     `json:"id"`
	TenantId             uuid.UUID                     `json:"tenant"`
	Plan                 *PlanResponse                 `json:"plan"`
	Status               string                        `json:"status"`
	BillingCycle         string                        `json:"billing_cycle"`
	BillingCycleAnchor   time.Time                     `json:"billing_cycle_anchor"`
	CurrentPeriodStart   time.Time                     `json:"current_period_start"`
	CurrentPeriodEnd     time.Time                     `json:"current_period_end"`
	TrialStart           *time.Time                    `json:"trial_start"`
	TrialEnd             *time.Time                    `json:"trial_end"`
	CanceledAt           *time.Time                    `json:"canceled_at"`
	CancelAtPeriodEnd    bool                          `json:"cancel_at_period_end"`
	StripeSubscriptionId string                        `json:"stripe_subscription_id,omitempty"`
	CurrentUsers         int                           `json:"current_users"`
	CurrentSuppliers     int                           `json:"current_suppliers"`
	CurrentCustomers     int                           `json:"current_customers"`
	CurrentMonthOrders   int                           `json:"current_month_orders"`
	IsActive             bool                          `json:"is_active"`
	IsTrial              bool                          `json:"is_trial"`
	TrialDaysRemaining   int                           `json:"trial_days_remaining"`
	DaysUntilRenewal     int                           `json:"days_until_renewal"`
	UsageLimits          map[string]UsageLimitResponse `json:"usage_limits"`
	CreatedAt            time.Time                     `json:"created_on"`
	UpdatedAt            time.Time                     `json:"modified_on"`
}

type UsageCounts struct {
	Users           int `json:"users"`
	Suppliers       int `json:"suppliers"`
	Customers       int `json:"customers"`
	OrdersThisMonth int `json:"orders_this_month"`
}

// UsageLimits uses null for unlimited.
type UsageLimits struct {
	Users          *int `json:"users"`
	Suppliers      *int `json:"suppliers"`
	Customers      *int `json:"customers"`
	OrdersPerMonth *int `json:"orders_per_month"`
}

type UsageResponse struct {
	Subscription   SubscriptionResponse          `json:"subscription"`
	Usage          UsageCounts                   `json:"usage"`
	Limits         UsageLimits                   `json:"limits"`
	ExceededLimits map[string]UsageLimitResponse `json:"exceeded_limits"`
}

type FeatureAccessRequest struct {
	FeatureName string `json:"feature_name" validate:"required"`
}

type FeatureAccessResponse struct {
	FeatureName        string `json:"feature_name"`
	HasAccess          bool   `json:"has_access"`
	Reason             string `json:"reason"`
	SubscriptionStatus string `json:"subscription_status,omitempty"`
	PlanName           string `json:"plan_name,omitempty"`
}

package mapper

import (
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) PlanToEntity(p *model.SubscriptionPlan) *entity.Plan {
	if p == nil {
		return nil
	}
	features := []string(p.Features)
	if features == nil {
		features = []string{}
	}
	return &entity.Plan{
		Id:                    p.Id,
		Name:                  p.Name,
		Tier:                  entity.PlanTier(p.Tier),
		StripePriceId:         p.StripePriceId,
		MonthlyPrice:          p.MonthlyPrice,
		YearlyPrice:           p.YearlyPrice,
		MaxUsers:              p.MaxUsers,
		MaxSuppliers:          p.MaxSuppliers,
		MaxCustomers:          p.MaxCustomers,
		MaxOrdersPerMonth:     p.MaxOrdersPerMonth,
		HasAiAssistant:        p.HasAiAssistant,
		HasAdvancedReporting:  p.HasAdvancedReporting,
		HasDocumentProcessing: p.HasDocumentProcessing,
		HasApiAccess:          p.HasApiAccess,
		HasPrioritySupport:    p.HasPrioritySupport,
		HasCustomBranding:     p.HasCustomBranding,
		Description:           p.Description,
		Features:              features,
		IsActive:              p.IsActive,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) PlanToModel(p *entity.Plan) *model.SubscriptionPlan {
	if p == nil {
		return nil
	}
	return &model.SubscriptionPlan{
		Id:                    p.Id,
		Name:                  p.Name,
		Tier:                  string(p.Tier),
		StripePriceId:         p.StripePriceId,
		MonthlyPrice:          p.MonthlyPrice,
		YearlyPrice:           p.YearlyPrice,
		MaxUsers:              p.MaxUsers,
		MaxSuppliers:          p.MaxSuppliers,
		MaxCustomers:          p.MaxCustomers,
		MaxOrdersPerMonth:     p.MaxOrdersPerMonth,
		HasAiAssistant:        p.HasAiAssistant,
		HasAdvancedReporting:  p.HasAdvancedReporting,
		HasDocumentProcessing: p.HasDocumentProcessing,
		HasApiAccess:          p.HasApiAccess,
		HasPrioritySupport:    p.HasPrioritySupport,
		HasCustomBranding:     p.HasCustomBranding,
		Description:           p.Description,
		Features:              datatypes.JSONSlice[string](p.Features),
		IsActive:              p.IsActive,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func (m *SubscriptionMapper) SubscriptionToEntity(s *model.Subscription) *entity.Subscription {
	if s == nil {
		return nil
	}
	var plan *entity.Plan
	if s.Plan.Id == s.PlanId && s.PlanId != uuid.Nil {
		plan = m.PlanToEntity(&s.Plan)
	}
	return &entity.Subscription{
		Id:                   s.Id,
		TenantId:             s.TenantId,
		PlanId:               s.PlanId,
		Plan:                 plan,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               entity.SubscriptionStatus(s.Status),
		BillingCycle:         entity.BillingCycle(s.BillingCycle),
		BillingCycleAnchor:   s.BillingCycleAnchor,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		TrialStart:           s.TrialStart,
		TrialEnd:             s.TrialEnd,
		CanceledAt:           s.CanceledAt,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CurrentUsers:         s.CurrentUsers,
		CurrentSuppliers:     s.CurrentSuppliers,
		CurrentCustomers:     s.CurrentCustomers,
		CurrentMonthOrders:   s.CurrentMonthOrders,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

// SubscriptionToModel leaves the Plan association empty; writes go through
// the plan_id column only.
func (m *SubscriptionMapper) SubscriptionToModel(s *entity.Subscription) *model.Subscription {
	if s == nil {
		return nil
	}
	return &model.Subscription{
		Id:                   s.Id,
		TenantId:             s.TenantId,
		PlanId:               s.PlanId,
		StripeSubscriptionId: s.StripeSubscriptionId,
		StripeCustomerId:     s.StripeCustomerId,
		Status:               string(s.Status),
		BillingCycle:         string(s.BillingCycle),
		BillingCycleAnchor:   s.BillingCycleAnchor,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		TrialStart:           s.TrialStart,
		TrialEnd:             s.TrialEnd,
		CanceledAt:           s.CanceledAt,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		CurrentUsers:         s.CurrentUsers,
		CurrentSuppliers:     s.CurrentSuppliers,
		CurrentCustomers:     s.CurrentCustomers,
		CurrentMonthOrders:   s.CurrentMonthOrders,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

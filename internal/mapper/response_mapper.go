package mapper

import (
	"time"

	"projectmeats-be/internal/dto"
	"projectmeats-be/internal/entity"
)

func ToPlanResponse(p *entity.Plan) *dto.PlanResponse {
	if p == nil {
		return nil
	}
	var yearly *string
	if p.YearlyPrice.Valid {
		v := p.YearlyPrice.Decimal.StringFixed(2)
		yearly = &v
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &dto.PlanResponse{
		Id:                    p.Id,
		Name:                  p.Name,
		Tier:                  string(p.Tier),
		MonthlyPrice:          p.MonthlyPrice.StringFixed(2),
		YearlyPrice:           yearly,
		YearlyDiscount:        p.YearlyDiscount().Round(2).InexactFloat64(),
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
	}
}

func ToPlanResponses(plans []*entity.Plan) []*dto.PlanResponse {
	out := make([]*dto.PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, ToPlanResponse(p))
	}
	return out
}

func ToUsageLimitResponses(in map[string]entity.UsageLimitStatus) map[string]dto.UsageLimitResponse {
	out := make(map[string]dto.UsageLimitResponse, len(in))
	for resource, st := range in {
		out[resource] = dto.UsageLimitResponse{Current: st.Current, Limit: st.Limit, Exceeded: st.Exceeded}
	}
	return out
}

// ToSubscriptionResponse evaluates the derived trial and renewal fields at now.
func ToSubscriptionResponse(s *entity.Subscription, now time.Time) *dto.SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &dto.SubscriptionResponse{
		Id:                   s.Id,
		TenantId:             s.TenantId,
		Plan:                 ToPlanResponse(s.Plan),
		Status:               string(s.Status),
		BillingCycle:         string(s.BillingCycle),
		BillingCycleAnchor:   s.BillingCycleAnchor,
		CurrentPeriodStart:   s.CurrentPeriodStart,
		CurrentPeriodEnd:     s.CurrentPeriodEnd,
		TrialStart:           s.TrialStart,
		TrialEnd:             s.TrialEnd,
		CanceledAt:           s.CanceledAt,
		CancelAtPeriodEnd:    s.CancelAtPeriodEnd,
		StripeSubscriptionId: s.StripeSubscriptionId,
		CurrentUsers:         s.CurrentUsers,
		CurrentSuppliers:     s.CurrentSuppliers,
		CurrentCustomers:     s.CurrentCustomers,
		CurrentMonthOrders:   s.CurrentMonthOrders,
		IsActive:             s.IsActive(),
		IsTrial:              s.IsTrial(now),
		TrialDaysRemaining:   s.TrialDaysRemaining(now),
		DaysUntilRenewal:     s.DaysUntilRenewal(now),
		UsageLimits:          ToUsageLimitResponses(s.CheckUsageLimits()),
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func ToInvoiceResponse(i *entity.Invoice, now time.Time) *dto.InvoiceResponse {
	if i == nil {
		return nil
	}
	return &dto.InvoiceResponse{
		Id:             i.Id,
		SubscriptionId: i.SubscriptionId,
		InvoiceNumber:  i.InvoiceNumber,
		AmountDue:      i.AmountDue.StringFixed(2),
		AmountPaid:     i.AmountPaid.StringFixed(2),
		InvoiceDate:    i.InvoiceDate,
		DueDate:        i.DueDate,
		PaidDate:       i.PaidDate,
		Status:         string(i.Status),
		PeriodStart:    i.PeriodStart,
		PeriodEnd:      i.PeriodEnd,
		IsOverdue:      i.IsOverdue(now),
		CreatedAt:      i.CreatedAt,
	}
}

func ToInvoiceResponses(invoices []*entity.Invoice, now time.Time) []*dto.InvoiceResponse {
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, i := range invoices {
		out = append(out, ToInvoiceResponse(i, now))
	}
	return out
}

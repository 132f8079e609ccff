package main

import (
	"projectmeats-be/internal/entity"

	"github.com/shopspring/decimal"
)

// defaultPlans is the catalog every fresh install starts with.
func defaultPlans() []*entity.Plan {
	free := entity.NewPlan("Free Trial", entity.PlanTierFree, decimal.Zero)
	free.YearlyPrice = decimal.NewNullDecimal(decimal.Zero)
	free.MaxUsers = entity.Limit(2)
	free.MaxSuppliers = entity.Limit(5)
	free.MaxCustomers = entity.Limit(10)
	free.MaxOrdersPerMonth = entity.Limit(25)
	free.HasAdvancedReporting = false
	free.Description = "Perfect for trying out ProjectMeats with basic features"
	free.Features = []string{
		"Up to 2 users",
		"Up to 5 suppliers",
		"Up to 10 customers",
		"Up to 25 orders per month",
		"Basic AI assistant",
		"Document processing",
		"Standard support",
	}

	basic := entity.NewPlan("Basic", entity.PlanTierBasic, decimal.RequireFromString("29.00"))
	basic.YearlyPrice = decimal.NewNullDecimal(decimal.RequireFromString("290.00"))
	basic.MaxUsers = entity.Limit(5)
	basic.MaxSuppliers = entity.Limit(25)
	basic.MaxCustomers = entity.Limit(50)
	basic.MaxOrdersPerMonth = entity.Limit(100)
	basic.Description = "Great for small businesses getting started"
	basic.Features = []string{
		"Up to 5 users",
		"Up to 25 suppliers",
		"Up to 50 customers",
		"Up to 100 orders per month",
		"Full AI assistant",
		"Advanced reporting",
		"Document processing",
		"Email support",
	}

	pro := entity.NewPlan("Professional", entity.PlanTierProfessional, decimal.RequireFromString("79.00"))
	pro.YearlyPrice = decimal.NewNullDecimal(decimal.RequireFromString("790.00"))
	pro.MaxUsers = entity.Limit(15)
	pro.MaxSuppliers = entity.Limit(100)
	pro.MaxCustomers = entity.Limit(200)
	pro.MaxOrdersPerMonth = entity.Limit(500)
	pro.HasApiAccess = true
	pro.HasPrioritySupport = true
	pro.HasCustomBranding = true
	pro.Description = "Perfect for growing businesses with advanced needs"
	pro.Features = []string{
		"Up to 15 users",
		"Up to 100 suppliers",
		"Up to 200 customers",
		"Up to 500 orders per month",
		"Full AI assistant",
		"Advanced reporting & analytics",
		"Document processing",
		"API access",
		"Custom branding",
		"Priority support",
	}

	// Enterprise leaves every limit nil (unlimited)
	enterprise := entity.NewPlan("Enterprise", entity.PlanTierEnterprise, decimal.RequireFromString("199.00"))
	enterprise.YearlyPrice = decimal.NewNullDecimal(decimal.RequireFromString("1990.00"))
	enterprise.HasApiAccess = true
	enterprise.HasPrioritySupport = true
	enterprise.HasCustomBranding = true
	enterprise.Description = "For large enterprises with unlimited needs"
	enterprise.Features = []string{
		"Unlimited users",
		"Unlimited suppliers",
		"Unlimited customers",
		"Unlimited orders",
		"Full AI assistant",
		"Advanced reporting & analytics",
		"Document processing",
		"Full API access",
		"Custom branding",
		"Priority support",
		"Custom integrations",
		"Dedicated account manager",
	}

	return []*entity.Plan{free, basic, pro, enterprise}
}

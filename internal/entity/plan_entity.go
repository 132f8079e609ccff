package entity

import (
	"time"

	"projectmeats-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PlanTier string

const (
	PlanTierFree         PlanTier = "free"
	PlanTierBasic        PlanTier = "basic"
	PlanTierProfessional PlanTier = "professional"
	PlanTierEnterprise   PlanTier = "enterprise"
)

// Feature names accepted by the feature gate
const (
	FeatureAiAssistant        = "ai_assistant"
	FeatureAdvancedReporting  = "advanced_reporting"
	FeatureDocumentProcessing = "document_processing"
	FeatureApiAccess          = "api_access"
	FeaturePrioritySupport    = "priority_support"
	FeatureCustomBranding     = "custom_branding"
)

var KnownFeatures = []string{
	FeatureAiAssistant,
	FeatureAdvancedReporting,
	FeatureDocumentProcessing,
	FeatureApiAccess,
	FeaturePrioritySupport,
	FeatureCustomBranding,
}

var hundred = decimal.NewFromInt(100)

type Plan struct {
	Id            uuid.UUID
	Name          string
	Tier          PlanTier
	StripePriceId string
	MonthlyPrice  decimal.Decimal
	YearlyPrice   decimal.NullDecimal // Valid=false means no yearly option

	// nil = unlimited
	MaxUsers          *int
	MaxSuppliers      *int
	MaxCustomers      *int
	MaxOrdersPerMonth *int

	HasAiAssistant        bool
	HasAdvancedReporting  bool
	HasDocumentProcessing bool
	HasApiAccess          bool
	HasPrioritySupport    bool
	HasCustomBranding     bool

	Description string
	Features    []string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPlan returns a plan with the catalog defaults applied.
func NewPlan(name string, tier PlanTier, monthly decimal.Decimal) *Plan {
	return &Plan{
		Name:                  name,
		Tier:                  tier,
		MonthlyPrice:          monthly,
		HasAiAssistant:        true,
		HasAdvancedReporting:  true,
		HasDocumentProcessing: true,
		Features:              []string{},
		IsActive:              true,
	}
}

// YearlyDiscount is the percentage saved by paying yearly instead of twelve
// monthly payments. Zero when there is no yearly price or the plan is free.
func (p *Plan) YearlyDiscount() decimal.Decimal {
	if !p.YearlyPrice.Valid {
		return decimal.Zero
	}
	annual := p.MonthlyPrice.Mul(decimal.NewFromInt(12))
	if annual.IsZero() {
		return decimal.Zero
	}
	return annual.Sub(p.YearlyPrice.Decimal).Div(annual).Mul(hundred)
}

// HasFeature maps a feature name onto the plan's flag. Unknown names deny.
func (p *Plan) HasFeature(name string) bool {
	switch name {
	case FeatureAiAssistant:
		return p.HasAiAssistant
	case FeatureAdvancedReporting:
		return p.HasAdvancedReporting
	case FeatureDocumentProcessing:
		return p.HasDocumentProcessing
	case FeatureApiAccess:
		return p.HasApiAccess
	case FeaturePrioritySupport:
		return p.HasPrioritySupport
	case FeatureCustomBranding:
		return p.HasCustomBranding
	default:
		return false
	}
}

func (p *Plan) Validate() error {
	if p.Name == "" {
		return apperror.NewValidationError("plan name is required")
	}
	if p.MonthlyPrice.IsNegative() {
		return apperror.NewValidationError("monthly_price must be >= 0", p.Name)
	}
	if p.YearlyPrice.Valid && p.YearlyPrice.Decimal.IsNegative() {
		return apperror.NewValidationError("yearly_price must be >= 0", p.Name)
	}
	for _, limit := range []*int{p.MaxUsers, p.MaxSuppliers, p.MaxCustomers, p.MaxOrdersPerMonth} {
		if limit != nil && *limit < 0 {
			return apperror.NewValidationError("limits must be >= 0", p.Name)
		}
	}
	return nil
}

// Limit returns a pointer to an int, for building plans with a finite limit.
func Limit(n int) *int {
	return &n
}

package dto

import (
	"time"

	"github.com/google/uuid"
)

type PlanResponse struct {
	Id                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Tier                  string    `json:"tier"`
	MonthlyPrice          string    `json:"monthly_price"`
	YearlyPrice           *string   `json:"yearly_price"`
	YearlyDiscount        float64   `json:"yearly_discount"`
	MaxUsers              *int      `json:"max_users"`
	MaxSuppliers          *int      `json:"max_suppliers"`
	MaxCustomers          *int      `json:"max_customers"`
	MaxOrdersPerMonth     *int      `json:"max_orders_per_month"`
	HasAiAssistant        bool      `json:"has_ai_assistant"`
	HasAdvancedReporting  bool      `json:"has_advanced_reporting"`
	HasDocumentProcessing bool      `json:"has_document_processing"`
	HasApiAccess          bool      `json:"has_api_access"`
	HasPrioritySupport    bool      `json:"has_priority_support"`
	HasCustomBranding     bool      `json:"has_custom_branding"`
	Description           string    `json:"description"`
	Features              []string  `json:"features"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
}

package mapper

import (
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
)

type InvoiceMapper struct{}

func NewInvoiceMapper() *InvoiceMapper {
	return &InvoiceMapper{}
}

func (m *InvoiceMapper) ToEntity(i *model.Invoice) *entity.Invoice {
	if i == nil {
		return nil
	}
	return &entity.Invoice{
		Id:              i.Id,
		SubscriptionId:  i.SubscriptionId,
		StripeInvoiceId: i.StripeInvoiceId,
		InvoiceNumber:   i.InvoiceNumber,
		AmountDue:       i.AmountDue,
		AmountPaid:      i.AmountPaid,
		InvoiceDate:     i.InvoiceDate,
		DueDate:         i.DueDate,
		PaidDate:        i.PaidDate,
		Status:          entity.InvoiceStatus(i.Status),
		PeriodStart:     i.PeriodStart,
		PeriodEnd:       i.PeriodEnd,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

func (m *InvoiceMapper) ToModel(i *entity.Invoice) *model.Invoice {
	if i == nil {
		return nil
	}
	return &model.Invoice{
		Id:              i.Id,
		SubscriptionId:  i.SubscriptionId,
		StripeInvoiceId: i.StripeInvoiceId,
		InvoiceNumber:   i.InvoiceNumber,
		AmountDue:       i.AmountDue,
		AmountPaid:      i.AmountPaid,
		InvoiceDate:     i.InvoiceDate,
		DueDate:         i.DueDate,
		PaidDate:        i.PaidDate,
		Status:          string(i.Status),
		PeriodStart:     i.PeriodStart,
		PeriodEnd:       i.PeriodEnd,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
	}
}

package mapper

import (
	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/model"
)

type TenantMapper struct{}

func NewTenantMapper() *TenantMapper {
	return &TenantMapper{}
}

func (m *TenantMapper) ToEntity(t *model.Tenant) *entity.Tenant {
	if t == nil {
		return nil
	}
	return &entity.Tenant{
		Id:        t.Id,
		Name:      t.Name,
		Subdomain: t.Subdomain,
		OwnerId:   t.OwnerId,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func (m *TenantMapper) ToModel(t *entity.Tenant) *model.Tenant {
	if t == nil {
		return nil
	}
	return &model.Tenant{
		Id:        t.Id,
		Name:      t.Name,
		Subdomain: t.Subdomain,
		OwnerId:   t.OwnerId,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

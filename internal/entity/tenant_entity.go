package entity

import (
	"time"

	"github.com/google/uuid"
)

type Tenant struct {
	Id        uuid.UUID
	Name      string
	Subdomain string
	OwnerId   uuid.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

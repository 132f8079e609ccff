package cache

import (
	"context"

	"projectmeats-be/internal/entity"
)

const activePlansKey = "licensing:plans:active"

// PlanCache holds the active plan catalog between reads.
type PlanCache interface {
	GetActivePlans(ctx context.Context) ([]*entity.Plan, bool)
	SetActivePlans(ctx context.Context, plans []*entity.Plan)
	Invalidate(ctx context.Context)
}

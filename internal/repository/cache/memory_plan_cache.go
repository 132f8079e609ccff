package cache

import (
	"context"
	"time"

	"projectmeats-be/internal/entity"

	gocache "github.com/patrickmn/go-cache"
)

type MemoryPlanCache struct {
	cache *gocache.Cache
}

// NewMemoryPlanCache keeps entries for ttl and purges expired ones every 2*ttl.
func NewMemoryPlanCache(ttl time.Duration) *MemoryPlanCache {
	return &MemoryPlanCache{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *MemoryPlanCache) GetActivePlans(_ context.Context) ([]*entity.Plan, bool) {
	if x, found := c.cache.Get(activePlansKey); found {
		return x.([]*entity.Plan), true
	}
	return nil, false
}

func (c *MemoryPlanCache) SetActivePlans(_ context.Context, plans []*entity.Plan) {
	c.cache.Set(activePlansKey, plans, gocache.DefaultExpiration)
}

func (c *MemoryPlanCache) Invalidate(_ context.Context) {
	c.cache.Delete(activePlansKey)
}

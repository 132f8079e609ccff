package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"projectmeats-be/internal/entity"
	"projectmeats-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisPlanCache shares the plan catalog across API replicas. Redis errors
// are logged and treated as a miss.
type RedisPlanCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewRedisPlanCache(rdb *redis.Client, ttl time.Duration, log logger.ILogger) *RedisPlanCache {
	return &RedisPlanCache{rdb: rdb, ttl: ttl, logger: log}
}

func (c *RedisPlanCache) GetActivePlans(ctx context.Context) ([]*entity.Plan, bool) {
	raw, err := c.rdb.Get(ctx, activePlansKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("CACHE", "Redis read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil, false
	}

	var plans []*entity.Plan
	if err := json.Unmarshal(raw, &plans); err != nil {
		c.logger.Warn("CACHE", "Dropping undecodable plan cache entry", map[string]interface{}{"error": err.Error()})
		c.Invalidate(ctx)
		return nil, false
	}
	return plans, true
}

func (c *RedisPlanCache) SetActivePlans(ctx context.Context, plans []*entity.Plan) {
	raw, err := json.Marshal(plans)
	if err != nil {
		c.logger.Warn("CACHE", "Failed to encode plans", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.rdb.Set(ctx, activePlansKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("CACHE", "Redis write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *RedisPlanCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, activePlansKey).Err(); err != nil {
		c.logger.Warn("CACHE", "Redis delete failed", map[string]interface{}{"error": err.Error()})
	}
}

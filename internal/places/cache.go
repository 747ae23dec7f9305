package places

import (
	"context"
	"encoding/json"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/platform/logger"
	"smartdivorce_backend/platform/redis"
)

const cacheKeyPrefix = "places:search:"

// Cache keeps recent text search responses in Redis to spare quota.
// Every failure path is a silent miss; the cache never blocks a search.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewCache wraps the shared Redis client. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Cache{client: client, ttl: ttl, log: log}
}

func (c *Cache) GetSearch(ctx context.Context, query string) ([]domain.PlaceRecord, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	data, err := c.client.Get(ctx, cacheKeyPrefix+query).Bytes()
	if err != nil {
		return nil, false
	}

	var records []domain.PlaceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.log.Warn("corrupt places cache entry", "query", query)
		return nil, false
	}
	return records, true
}

func (c *Cache) PutSearch(ctx context.Context, query string, records []domain.PlaceRecord) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+query, data, c.ttl).Err(); err != nil {
		c.log.Warn("places cache write failed", "error", err.Error())
	}
}

// internal/pagecontext/redis.go
package pagecontext

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adserve-core/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "pagectx:"

// RedisCache is the shared cache backend for multi-instance deployments.
// Redis key expiry enforces the TTL; the stored capture timestamp is still
// checked on read so a mis-set server TTL can never resurrect a stale entry.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return NewRedisCacheWithClock(client, ttl, time.Now)
}

func NewRedisCacheWithClock(client *redis.Client, ttl time.Duration, now func() time.Time) *RedisCache {
	return &RedisCache{client: client, ttl: ttl, now: now}
}

type redisEntry struct {
	Description *models.PageDescription `json:"description"`
	StoredAt    time.Time               `json:"stored_at"`
}

func (c *RedisCache) Get(ctx context.Context, key string) (*models.PageDescription, error) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry redisEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		c.client.Del(ctx, redisKeyPrefix+key)
		return nil, ErrCacheMiss
	}

	if c.now().Sub(entry.StoredAt) > c.ttl {
		c.client.Del(ctx, redisKeyPrefix+key)
		return nil, ErrCacheMiss
	}

	return entry.Description, nil
}

func (c *RedisCache) Put(ctx context.Context, key string, desc *models.PageDescription) error {
	payload, err := json.Marshal(redisEntry{Description: desc, StoredAt: c.now()})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := c.client.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

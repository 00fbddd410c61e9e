// Package cache keeps short-lived copies of upstream provider responses in
// Redis so a burst of dashboard loads does not hammer the rate-limited APIs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cryptodash/logger"
)

// TTLs are short on purpose: quotes stale in a minute, headlines a little
// slower.
const (
	PriceTTL = time.Minute
	NewsTTL  = 2 * time.Minute
)

// ProviderCache wraps a Redis client. A nil client disables caching, so
// adapters can run without Redis in tests.
type ProviderCache struct {
	client *redis.Client
}

// NewProviderCache creates a cache over the given client (may be nil).
func NewProviderCache(client *redis.Client) *ProviderCache {
	return &ProviderCache{client: client}
}

// PriceKey builds the cache key for a price listing.
func PriceKey(kind string, limit int) string {
	return fmt.Sprintf("provider:prices:%s:%d", kind, limit)
}

// NewsKey builds the cache key for a news listing.
func NewsKey(limit int) string {
	return fmt.Sprintf("provider:news:%d", limit)
}

// Get loads a cached payload into dest. Returns false on miss, disabled
// cache, or any Redis error.
func (c *ProviderCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("provider cache read failed", logger.String("key", key), logger.ErrorField(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		logger.Warn("provider cache entry corrupt", logger.String("key", key), logger.ErrorField(err))
		return false
	}
	return true
}

// Set stores a payload under key for ttl. Failures are logged and ignored.
func (c *ProviderCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn("provider cache encode failed", logger.String("key", key), logger.ErrorField(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Warn("provider cache write failed", logger.String("key", key), logger.ErrorField(err))
	}
}

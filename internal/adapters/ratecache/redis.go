// Package ratecache implements the rate cache tier on Redis or in process.
package ratecache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	"github.com/SscSPs/finance_ledger/internal/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisCache stores rates as decimal strings. Redis errors degrade to misses: a
// cache outage must not block rate resolution.
type RedisCache struct {
	client *goredis.Client
}

var _ providers.RateCache = (*RedisCache)(nil)

// NewRedisCache creates a cache backed by the provided Redis client.
func NewRedisCache(client *goredis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) GetRate(ctx context.Context, key string) (decimal.Decimal, bool) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Warn("Rate cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return decimal.Zero, false
	}
	rate, err := decimal.NewFromString(data)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Rate cache holds a malformed value", slog.String("key", key))
		return decimal.Zero, false
	}
	return rate, true
}

// SetRate stores rate under key; a zero ttl keeps it until evicted.
func (c *RedisCache) SetRate(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) {
	if err := c.client.Set(ctx, key, rate.String(), ttl).Err(); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Rate cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

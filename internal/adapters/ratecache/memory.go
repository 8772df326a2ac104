package ratecache

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/finance_ledger/internal/core/ports/providers"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"
)

// DefaultSize is the per-tier capacity of a MemoryCache.
const DefaultSize = 4096

// MemoryCache is the in-process tier used when no Redis is configured. Entries
// stored without a ttl go to a plain LRU; entries with a ttl go to an expirable
// LRU whose lifetime is fixed at construction.
type MemoryCache struct {
	permanent *lru.Cache[string, decimal.Decimal]
	expiring  *expirable.LRU[string, decimal.Decimal]
}

var _ providers.RateCache = (*MemoryCache)(nil)

// NewMemoryCache creates an in-process cache. expiringTTL should match the
// latest-rate TTL handed to the exchange rate service.
func NewMemoryCache(size int, expiringTTL time.Duration) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	permanent, err := lru.New[string, decimal.Decimal](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate cache: %w", err)
	}
	return &MemoryCache{
		permanent: permanent,
		expiring:  expirable.NewLRU[string, decimal.Decimal](size, nil, expiringTTL),
	}, nil
}

func (c *MemoryCache) GetRate(_ context.Context, key string) (decimal.Decimal, bool) {
	if rate, ok := c.permanent.Get(key); ok {
		return rate, true
	}
	return c.expiring.Get(key)
}

func (c *MemoryCache) SetRate(_ context.Context, key string, rate decimal.Decimal, ttl time.Duration) {
	if ttl <= 0 {
		c.permanent.Add(key, rate)
		return
	}
	c.expiring.Add(key, rate)
}

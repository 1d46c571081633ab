package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"reseller-orders/internal/domain"

	"github.com/go-redis/redis/v8"
)

const monthlyProfitKey = "orders:profit:monthly"

// ProfitCacheInterface caches the monthly profit aggregate. Failures are
// logged and treated as a miss.
type ProfitCacheInterface interface {
	Get(ctx context.Context) ([]domain.MonthProfit, bool)
	Set(ctx context.Context, profit []domain.MonthProfit)
	Invalidate(ctx context.Context)
}

var _ ProfitCacheInterface = (*ProfitCache)(nil)

type ProfitCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewProfitCache(rdb redis.Cmdable, ttl time.Duration) *ProfitCache {
	return &ProfitCache{rdb: rdb, ttl: ttl}
}

func (c *ProfitCache) Get(ctx context.Context) ([]domain.MonthProfit, bool) {
	b, err := c.rdb.Get(ctx, monthlyProfitKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("profit cache get: %v", err)
		}
		return nil, false
	}

	var profit []domain.MonthProfit
	if err := json.Unmarshal(b, &profit); err != nil {
		log.Printf("profit cache decode: %v", err)
		return nil, false
	}
	return profit, true
}

func (c *ProfitCache) Set(ctx context.Context, profit []domain.MonthProfit) {
	data, err := json.Marshal(profit)
	if err != nil {
		log.Printf("profit cache encode: %v", err)
		return
	}
	if err := c.rdb.Set(ctx, monthlyProfitKey, data, c.ttl).Err(); err != nil {
		log.Printf("profit cache set: %v", err)
	}
}

func (c *ProfitCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, monthlyProfitKey).Err(); err != nil {
		log.Printf("profit cache invalidate: %v", err)
	}
}

// NopProfitCache never stores anything.
type NopProfitCache struct{}

func (NopProfitCache) Get(context.Context) ([]domain.MonthProfit, bool) { return nil, false }
func (NopProfitCache) Set(context.Context, []domain.MonthProfit) {}
func (NopProfitCache) Invalidate(context.Context) {}

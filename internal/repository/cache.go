package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache is a best-effort JSON cache. Misses and backend failures look the
// same to callers; failures are only logged.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)

	// Generation reads a counter that versions a family of keys. ok is false
	// when the counter cannot be read, in which case callers skip the cache.
	Generation(ctx context.Context, key string) (gen int64, ok bool)
	// Bump advances the counter so that entries written under earlier
	// generations are never read again.
	Bump(ctx context.Context, key string)
}

type redisCache struct{ rdb *redis.Client }

// NewRedisCache returns a Cache backed by rdb. A nil client yields a cache
// that never hits.
func NewRedisCache(rdb *redis.Client) Cache {
	if rdb == nil {
		return NopCache{}
	}
	return &redisCache{rdb: rdb}
}

func (c *redisCache) GetJSON(ctx context.Context, key string, dst any) bool {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("cache: get failed")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: corrupt entry")
		return false
	}
	return true
}

func (c *redisCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: set failed")
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache: delete failed")
	}
}

func (c *redisCache) Generation(ctx context.Context, key string) (int64, bool) {
	gen, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: generation read failed")
		return 0, false
	}
	return gen, true
}

func (c *redisCache) Bump(ctx context.Context, key string) {
	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache: generation bump failed")
	}
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) GetJSON(context.Context, string, any) bool           { return false }
func (NopCache) SetJSON(context.Context, string, any, time.Duration) {}
func (NopCache) Delete(context.Context, ...string)                   {}
func (NopCache) Generation(context.Context, string) (int64, bool)    { return 0, false }
func (NopCache) Bump(context.Context, string)                        {}

// Cache keys.
const (
	// StockGenerationKey versions the cached stock summary.
	StockGenerationKey = "stock:gen"

	stockSummaryPrefix = "stock:summary:"
	pricePrefix        = "price:"
)

// StockSummaryKey is the cache key of the stock summary built under gen.
func StockSummaryKey(gen int64) string { return stockSummaryPrefix + strconv.FormatInt(gen, 10) }

// PriceKey is the cache key of the public price lookup for barcode.
func PriceKey(barcode string) string { return pricePrefix + barcode }

package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ventaboard/sales-api/internal/core/domain"
)

const (
	cacheKeyPublic = "sales:data:public"
	cacheKeyAll    = "sales:data:all"
	cacheTTL       = 5 * time.Minute
)

// DatasetCache is a read cache over the persisted dataset, keyed by reader
// privilege. Each ingestion invalidates both keys. Every failure degrades to
// a cache miss; callers always have the repository as source of truth.
type DatasetCache struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewDatasetCache(client *redis.Client, log zerolog.Logger) *DatasetCache {
	return &DatasetCache{client: client, log: log}
}

func (c *DatasetCache) Get(ctx context.Context, includeAdmin bool) ([]domain.Sale, bool) {
	payload, err := c.client.Get(ctx, cacheKey(includeAdmin)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Msg("dataset cache read")
		}
		return nil, false
	}

	var sales []domain.Sale
	if err := json.Unmarshal(payload, &sales); err != nil {
		c.log.Warn().Err(err).Msg("dataset cache decode")
		return nil, false
	}
	return sales, true
}

func (c *DatasetCache) Set(ctx context.Context, includeAdmin bool, sales []domain.Sale) {
	payload, err := json.Marshal(sales)
	if err != nil {
		c.log.Warn().Err(err).Msg("dataset cache encode")
		return
	}
	if err := c.client.Set(ctx, cacheKey(includeAdmin), payload, cacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Msg("dataset cache write")
	}
}

func (c *DatasetCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, cacheKeyPublic, cacheKeyAll).Err(); err != nil {
		c.log.Warn().Err(err).Msg("dataset cache invalidate")
	}
}

func cacheKey(includeAdmin bool) string {
	if includeAdmin {
		return cacheKeyAll
	}
	return cacheKeyPublic
}

package report

import (
	"context"
	"encoding/json"
	"errors"
	"reports-api/metrics"
	"reports-api/schemas"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

const (
	FILTERS_CACHE_KEY         = "reports:filters:v1"
	DEFAULT_FILTERS_CACHE_TTL = 5 * time.Minute
)

// FilterCache stores the extracted taxonomy so the dashboard does not walk the
// whole collection on every page load. A nil *FilterCache is a valid,
// always-missing cache.
type FilterCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewFilterCache(rdb *redis.Client, ttl time.Duration) *FilterCache {
	if ttl <= 0 {
		ttl = DEFAULT_FILTERS_CACHE_TTL
	}
	return &FilterCache{rdb: rdb, ttl: ttl}
}

func (c *FilterCache) Get(ctx context.Context) (*schemas.ReportFilters, bool, error) {
	if c == nil {
		return nil, false, nil
	}

	raw, err := c.rdb.Get(ctx, FILTERS_CACHE_KEY).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.FiltersCacheTotal.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.FiltersCacheTotal.WithLabelValues("error").Inc()
		return nil, false, eris.Wrap(err, "read filters cache")
	}

	var filters schemas.ReportFilters
	if err := json.Unmarshal(raw, &filters); err != nil {
		metrics.FiltersCacheTotal.WithLabelValues("error").Inc()
		return nil, false, eris.Wrap(err, "decode filters cache")
	}
	metrics.FiltersCacheTotal.WithLabelValues("hit").Inc()
	return &filters, true, nil
}

func (c *FilterCache) Set(ctx context.Context, filters schemas.ReportFilters) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return eris.Wrap(err, "encode filters cache")
	}
	return eris.Wrap(c.rdb.Set(ctx, FILTERS_CACHE_KEY, raw, c.ttl).Err(), "write filters cache")
}

// Invalidate drops the cached taxonomy after the collection changed.
func (c *FilterCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return eris.Wrap(c.rdb.Del(ctx, FILTERS_CACHE_KEY).Err(), "invalidate filters cache")
}

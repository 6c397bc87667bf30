package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// CachedSource wraps a Source and serves repeated requests for the same location
// and time bucket from an injected Cache.
type CachedSource struct {
	source Source
	cache  Cache
	ttl    time.Duration
	now    func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedSource creates a cached wrapper around a source. Entries live for ttl and
// are keyed by the ttl-sized time bucket they were fetched in.
func NewCachedSource(source Source, cache Cache, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedSource{
		source: source,
		cache:  cache,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Name returns the name of the underlying source with a [Cached] suffix.
func (c *CachedSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchCurrent returns current conditions, using the cache when available.
func (c *CachedSource) FetchCurrent(ctx context.Context, loc Location) (RawCurrentReading, error) {
	var raw RawCurrentReading
	err := c.fetch(ctx, c.key("current", loc), &raw, func() (any, error) {
		return c.source.FetchCurrent(ctx, loc)
	})
	return raw, err
}

// FetchForecast returns the forecast, using the cache when available.
func (c *CachedSource) FetchForecast(ctx context.Context, loc Location) (RawForecast, error) {
	var raw RawForecast
	err := c.fetch(ctx, c.key("forecast", loc), &raw, func() (any, error) {
		return c.source.FetchForecast(ctx, loc)
	})
	return raw, err
}

// Stats returns cache hit and miss counts.
func (c *CachedSource) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *CachedSource) key(kind string, loc Location) string {
	bucket := c.now().Truncate(c.ttl).Unix()
	return fmt.Sprintf("%s:%s:%d", kind, loc.Key(), bucket)
}

// fetch decodes a cached payload into dst, or calls load and stores its result.
func (c *CachedSource) fetch(ctx context.Context, key string, dst any, load func() (any, error)) error {
	payload, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		log.Warnf("[cache] get %s failed: %v", key, err)
	}
	if ok {
		if err := json.Unmarshal(payload, dst); err == nil {
			c.hits.Inc()
			log.Debugf("[cache] HIT %s", key)
			return nil
		}
		log.Warnf("[cache] undecodable entry for %s; refetching", key)
	}

	c.misses.Inc()
	log.Debugf("[cache] MISS %s from %s", key, c.source.Name())

	fresh, err := load()
	if err != nil {
		return err
	}

	payload, err = json.Marshal(fresh)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	if err := c.cache.Set(ctx, key, payload, c.ttl); err != nil {
		log.Warnf("[cache] set %s failed: %v", key, err)
	}

	return json.Unmarshal(payload, dst)
}

var _ Source = (*CachedSource)(nil)

package repositories

import (
	"encoding/json"
	"log/slog"
	"time"

	"rentals-api/domain"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/karlseguin/ccache/v3"
)

// ListingCache caches pages of property listings. It is two-tiered: a
// local in-process cache backed by an optional shared memcached tier.
type ListingCache interface {
	Get(key string) ([]domain.Property, int64, bool)
	Set(key string, properties []domain.Property, total int64)
	Flush()
}

// listingPage is the cached value.
type listingPage struct {
	Properties []domain.Property `json:"properties"`
	Total      int64             `json:"total"`
}

type listingCache struct {
	local     *ccache.Cache[*listingPage]
	memcached *memcache.Client // nil when no host is configured
	ttl       time.Duration
	logger    *slog.Logger
}

// NewListingCache creates a ListingCache. When memcachedHost is empty only
// the local tier is used.
func NewListingCache(memcachedHost string, ttl time.Duration, logger *slog.Logger) ListingCache {
	cache := &listingCache{
		local:  ccache.New(ccache.Configure[*listingPage]().MaxSize(1000)),
		ttl:    ttl,
		logger: logger,
	}
	if memcachedHost != "" {
		cache.memcached = memcache.New(memcachedHost)
		logger.Info("listing cache using memcached tier", "host", memcachedHost)
	}
	return cache
}

// Get looks a page up, local tier first, then memcached. A memcached hit
// is promoted into the local tier.
func (c *listingCache) Get(key string) ([]domain.Property, int64, bool) {
	if item := c.local.Get(key); item != nil && !item.Expired() {
		page := item.Value()
		return page.Properties, page.Total, true
	}

	if c.memcached == nil {
		return nil, 0, false
	}

	stored, err := c.memcached.Get(key)
	if err != nil {
		if err != memcache.ErrCacheMiss {
			c.logger.Warn("memcached get failed", "key", key, "error", err)
		}
		return nil, 0, false
	}

	var page listingPage
	if err := json.Unmarshal(stored.Value, &page); err != nil {
		c.logger.Warn("bad cache payload", "key", key, "error", err)
		return nil, 0, false
	}

	c.local.Set(key, &page, c.ttl)
	return page.Properties, page.Total, true
}

// Set stores a page in both tiers.
func (c *listingCache) Set(key string, properties []domain.Property, total int64) {
	page := &listingPage{Properties: properties, Total: total}
	c.local.Set(key, page, c.ttl)

	if c.memcached == nil {
		return
	}

	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.memcached.Set(&memcache.Item{
		Key:        key,
		Value:      data,
		Expiration: int32(c.ttl.Seconds()),
	}); err != nil {
		c.logger.Warn("memcached set failed", "key", key, "error", err)
	}
}

// Flush drops every cached page. Called after any write that can change
// listing results.
func (c *listingCache) Flush() {
	c.local.Clear()
	if c.memcached != nil {
		if err := c.memcached.FlushAll(); err != nil {
			c.logger.Warn("memcached flush failed", "error", err)
		}
	}
}

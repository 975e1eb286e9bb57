package baidu

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AdamsLee/baidu-geocode/internal/domain"
	"github.com/AdamsLee/baidu-geocode/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache. Entries
// expire after the configured TTL; a zero TTL disables expiry.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lruCache
	metrics *observability.Metrics
}

var _ domain.Geocoder = (*CachedGeocoder)(nil)

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedGeocoder {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &CachedGeocoder{
		inner:   inner,
		cache:   newLRUCache(maxEntries, ttl),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) Geocode(ctx context.Context, query string, opts *domain.GeocodeOptions) (*domain.Location, error) {
	city := ""
	if opts != nil {
		city = opts.City
	}
	key := fmt.Sprintf("geo:%s|%s", query, city)
	if loc, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("geocode", "hit").Inc()
		return loc, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("geocode", "miss").Inc()

	loc, err := c.inner.Geocode(ctx, query, opts)
	if err != nil {
		return loc, err
	}
	// Only cache non-empty results so transient "not found" responses can
	// be retried.
	if loc != nil {
		c.cache.put(key, loc)
	}
	return loc, nil
}

func (c *CachedGeocoder) Reverse(ctx context.Context, point any, opts *domain.ReverseOptions) (*domain.Location, error) {
	// Coerce first so equivalent point-like inputs share a cache key.
	location, err := domain.FormatPoint(point)
	if err != nil {
		return nil, err
	}
	coordType := ""
	if opts != nil {
		coordType = opts.CoordType
	}
	key := fmt.Sprintf("rev:%s|%s", location, coordType)
	if loc, ok := c.cache.get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("reverse", "hit").Inc()
		return loc, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("reverse", "miss").Inc()

	loc, err := c.inner.Reverse(ctx, point, opts)
	if err != nil {
		return loc, err
	}
	if loc != nil {
		c.cache.put(key, loc)
	}
	return loc, nil
}

// lruCache is a simple thread-safe LRU cache for locations with optional
// per-entry TTL.
type lruCache struct {
	maxEntries int
	ttl        time.Duration
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key       string
	value     *domain.Location
	expiresAt time.Time // zero when the cache has no TTL
	prev      *entry
	next      *entry
}

func newLRUCache(maxEntries int, ttl time.Duration) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (*domain.Location, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && clock.Now().After(e.expiresAt) {
		delete(c.entries, e.key)
		c.remove(e)
		return nil, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value *domain.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = clock.Now().Add(c.ttl)
	}

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}

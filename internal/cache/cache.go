package cache

import (
	"context"
	"sync"
	"time"

	"github.com/kjstillabower/geoweather-service/internal/models"
	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// DefaultWindow is how long an assembled report stays fresh when no window is configured.
const DefaultWindow = 5 * time.Minute

// Cache stores assembled weather reports by coordinate key.
// Get returns a report only while it is inside the freshness window.
type Cache interface {
	Get(ctx context.Context, key string) (models.WeatherReport, bool, error)
	Set(ctx context.Context, key string, report models.WeatherReport) error
}

// InMemoryCache is a process-local Cache. Entries older than the window are deleted on the
// first Get that observes them; there is no size bound and no background sweep.
type InMemoryCache struct {
	mu     sync.RWMutex
	data   map[string]cacheEntry
	window time.Duration
	now    func() time.Time
}

type cacheEntry struct {
	report     models.WeatherReport
	insertedAt time.Time
}

// NewInMemoryCache creates a cache with the given freshness window (DefaultWindow if <= 0).
func NewInMemoryCache(window time.Duration) *InMemoryCache {
	if window <= 0 {
		window = DefaultWindow
	}
	return &InMemoryCache{
		data:   make(map[string]cacheEntry),
		window: window,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Tests use it to step past the window.
func (c *InMemoryCache) WithClock(now func() time.Time) *InMemoryCache {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Window returns the freshness window.
func (c *InMemoryCache) Window() time.Duration {
	return c.window
}

// Get returns (report, true, nil) while now - insertedAt <= window. An older entry is
// deleted and reported as a miss.
func (c *InMemoryCache) Get(ctx context.Context, key string) (models.WeatherReport, bool, error) {
	c.mu.RLock()
	entry, ok := c.data[key]
	now := c.now()
	c.mu.RUnlock()
	if !ok {
		return models.WeatherReport{}, false, nil
	}

	if now.Sub(entry.insertedAt) > c.window {
		c.evict(key)
		return models.WeatherReport{}, false, nil
	}

	return entry.report, true, nil
}

// evict deletes key if it is still stale; a concurrent Set may have refreshed it.
func (c *InMemoryCache) evict(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.insertedAt) <= c.window {
		return
	}
	delete(c.data, key)
	observability.CacheEvictionsTotal.Inc()
}

// Set stores report under key, replacing any existing entry and restarting its window.
func (c *InMemoryCache) Set(ctx context.Context, key string, report models.WeatherReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = cacheEntry{
		report:     report,
		insertedAt: c.now(),
	}
	return nil
}

// Len returns the number of stored entries, including stale ones not yet observed.
func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

package cache

import (
	"strings"
	"sync"
	"time"

	"StockScope/internal/model"
)

const (
	DefaultTTL     = 300 * time.Second
	DefaultMaxSize = 32
)

type entry struct {
	bars []model.PriceBar
	at   time.Time
}

// DataCache is a TTL-bounded, size-bounded in-memory cache of price history
// keyed by (symbol, period). Payloads are copied on the way in and out so a
// caller mutating a returned slice never corrupts the cached data.
//
// Expiry is evaluated lazily: an expired entry is deleted by the Get that
// discovers it. Capacity eviction happens only in Set and drops the entry
// with the oldest insertion timestamp; the scan is O(n) but n stays small.
type DataCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]entry
}

// New creates a cache. Non-positive ttl or maxSize fall back to the
// defaults (300s, 32 entries).
func New(ttl time.Duration, maxSize int) *DataCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &DataCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: make(map[string]entry),
	}
}

func key(symbol, period string) string {
	return strings.ToUpper(symbol) + "_" + period
}

// Get returns a copy of the cached bars for (symbol, period), or false when
// absent or expired.
func (c *DataCache) Get(symbol, period string) ([]model.PriceBar, bool) {
	k := key(symbol, period)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[k]
	if !ok {
		return nil, false
	}
	if time.Since(e.at) > c.ttl {
		delete(c.entries, k)
		return nil, false
	}
	return copyBars(e.bars), true
}

// Set stores a copy of bars under (symbol, period) with the current
// timestamp, evicting the oldest entry first when the cache is full.
func (c *DataCache) Set(symbol, period string, bars []model.PriceBar) {
	k := key(symbol, period)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[k]; !exists && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	c.entries[k] = entry{bars: copyBars(bars), at: time.Now()}
}

// evictOldest removes the entry with the smallest insertion timestamp.
// Caller must hold the mutex.
func (c *DataCache) evictOldest() {
	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.at.Before(oldestAt) {
			oldestKey, oldestAt = k, e.at
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Len returns the number of live entries, expired or not.
func (c *DataCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *DataCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

func copyBars(bars []model.PriceBar) []model.PriceBar {
	if bars == nil {
		return nil
	}
	out := make([]model.PriceBar, len(bars))
	copy(out, bars)
	return out
}

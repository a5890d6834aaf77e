// Package reportcache keeps rendered analysis reports in memory, keyed by the log they came from.
package reportcache

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/maypok86/otter/v2"
)

type entry struct {
	ExpiresAt time.Time
	Data      []byte
}

// Cache is a bounded, TTL-expiring cache of report bytes. It is safe for concurrent use.
// Nothing is written to disk.
type Cache struct {
	cache  *otter.Cache[string, entry]
	logger *slog.Logger
	ttl    time.Duration
}

// New creates a cache holding at most size reports for ttl each.
func New(size int, ttl time.Duration, logger *slog.Logger) *Cache {
	c := otter.Must(&otter.Options[string, entry]{
		MaximumSize:      size,
		ExpiryCalculator: otter.ExpiryWriting[string, entry](ttl),
	})
	logger.Info("report cache initialized", "size", size, "ttl", ttl)
	return &Cache{cache: c, ttl: ttl, logger: logger}
}

// Key derives the cache key for a raw log and the options it was analyzed with.
func Key(log []byte, variant string) string {
	h := sha256.New()
	h.Write([]byte(variant))
	h.Write([]byte{0})
	h.Write(log)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached report for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	e, found := c.cache.GetIfPresent(key)
	if !found {
		c.logger.Debug("report cache miss", "key", key[:12], "reason", "not_found")
		return nil, false
	}

	// Check if expired (otter should handle this, but double-check)
	if time.Now().After(e.ExpiresAt) {
		c.logger.Debug("report cache miss", "key", key[:12], "reason", "expired", "expired_at", e.ExpiresAt)
		c.cache.Invalidate(key)
		return nil, false
	}

	return e.Data, true
}

// Set stores a report under key.
func (c *Cache) Set(key string, data []byte) {
	e := entry{Data: data, ExpiresAt: time.Now().Add(c.ttl)}
	c.cache.Set(key, e)
	c.logger.Debug("report cache set", "key", key[:12], "expires_at", e.ExpiresAt, "size", len(data))
}

// Len is the approximate number of cached reports.
func (c *Cache) Len() int {
	return c.cache.EstimatedSize()
}

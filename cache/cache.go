// Package cache wraps memcached for the explore rankings. A nil *Cache is
// valid and behaves as a permanent miss, so callers need no configuration
// checks.
package cache

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"
)

// Cache is a thin JSON layer over a memcached client.
type Cache struct {
	client *memcache.Client
	logger *zap.Logger
}

// New connects to memcached at addr. Returns nil when addr is empty.
func New(addr string, logger *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{client: memcache.New(addr), logger: logger}
}

// GetJSON loads key into dst. Returns false on miss, decode failure or when
// the cache is disabled.
func (c *Cache) GetJSON(key string, dst interface{}) bool {
	if c == nil {
		return false
	}
	item, err := c.client.Get(key)
	if err != nil {
		if !errors.Is(err, memcache.ErrCacheMiss) {
			c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(item.Value, dst); err != nil {
		c.logger.Warn("cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores v under key with the given TTL. Failures are logged, never
// surfaced.
func (c *Cache) SetJSON(key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(&memcache.Item{
		Key:        key,
		Value:      data,
		Expiration: int32(ttl / time.Second),
	}); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Package metacache provides the persisted, address-keyed, field-level
// cache for immutable on-chain metadata.
package metacache

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store persists the flat field mapping across process restarts.
type Store interface {
	// Load returns the full mapping. Absent or corrupt content must be
	// reported as an empty mapping, never as a fatal error.
	Load(ctx context.Context) (map[string]string, error)
	// Put persists a single entry.
	Put(ctx context.Context, key, value string) error
}

// Loader fetches a value on cache miss.
type Loader func(ctx context.Context) (string, error)

// Cache maps normalized (lowercased) addresses to partial field records.
// Fields are cached forever once resolved; there is no eviction. The key
// space is bounded by the set of on-chain addresses ever encountered.
type Cache struct {
	mu     sync.RWMutex
	data   map[string]string
	store  Store
	logger *zap.Logger
}

// New builds a cache over the given store, loading it once. A nil store
// yields a purely in-memory cache.
func New(ctx context.Context, store Store, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	data := make(map[string]string)
	if store != nil {
		loaded, err := store.Load(ctx)
		if err != nil {
			logger.Warn("cache load failed, starting empty", zap.Error(err))
		} else if loaded != nil {
			data = loaded
		}
	}
	return &Cache{data: data, store: store, logger: logger}
}

// Key builds the storage key for an address/field pair.
func Key(address, field string) string {
	return strings.ToLower(address) + "/" + field
}

// Get returns the cached value for (address, field), or invokes loader,
// stores and persists the result, and returns it. A hit never triggers a
// network call.
func (c *Cache) Get(ctx context.Context, address, field string, loader Loader) (string, error) {
	key := Key(address, field)

	c.mu.RLock()
	value, ok := c.data[key]
	c.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := loader(ctx)
	if err != nil {
		return "", err
	}
	c.put(ctx, key, value)
	return value, nil
}

// Peek returns a cached value without ever loading.
func (c *Cache) Peek(address, field string) (string, bool) {
	c.mu.RLock()
	value, ok := c.data[Key(address, field)]
	c.mu.RUnlock()
	return value, ok
}

// Put stores a value directly, for callers that resolved several fields in
// one read.
func (c *Cache) Put(ctx context.Context, address, field, value string) {
	c.put(ctx, Key(address, field), value)
}

func (c *Cache) put(ctx context.Context, key, value string) {
	c.mu.Lock()
	c.data[key] = value
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Put(ctx, key, value); err != nil {
			c.logger.Warn("cache persist failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vmihailenco/msgpack/v5"
)

const KeySeparator = ":"

// Store is a raw key/value backend. Implementations may fail; Cache absorbs those failures.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their own health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Cache is the best-effort read-through/write-through helper used by services.
// A nil *Cache behaves as a permanently empty cache.
type Cache struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{store: store, logger: logger}
}

// Key builds the (entityType, id, scopeID) cache key.
func Key(entityType string, id, scopeID int64) string {
	return fmt.Sprintf("%s%s%d%s%d", entityType, KeySeparator, id, KeySeparator, scopeID)
}

// Get decodes the cached value into dst and reports a hit. Misses, backend
// errors and decode errors all report false.
func (c *Cache) Get(ctx context.Context, entityType string, id, scopeID int64, dst interface{}) bool {
	if c == nil || c.store == nil {
		return false
	}

	key := Key(entityType, id, scopeID)
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	if err := msgpack.Unmarshal(raw, dst); err != nil {
		c.logger.Warn("cache decode failed", "key", key, "error", err)
		c.Invalidate(ctx, entityType, id, scopeID)
		return false
	}
	return true
}

func (c *Cache) Put(ctx context.Context, entityType string, id, scopeID int64, value interface{}) {
	if c == nil || c.store == nil {
		return
	}

	key := Key(entityType, id, scopeID)
	raw, err := msgpack.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw); err != nil {
		c.logger.Warn("cache put failed", "key", key, "error", err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, entityType string, id, scopeID int64) {
	if c == nil || c.store == nil {
		return
	}

	key := Key(entityType, id, scopeID)
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("cache invalidate failed", "key", key, "error", err)
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil || c.store == nil {
		return nil
	}
	if p, ok := c.store.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

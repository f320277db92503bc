package trending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// ErrCacheMiss signals the window is not cached; callers rebuild from the DB.
var ErrCacheMiss = errors.New("trending window not cached")

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type cacheKeyer interface {
	TrendingKey() string
}

// Cache stores the serialized ranked window under a single well-known key.
type Cache struct {
	store cacheStore
	keyer cacheKeyer
	ttl   time.Duration
}

// NewCache builds the trending cache with the configured TTL.
func NewCache(store cacheStore, keyer cacheKeyer, ttl time.Duration) (*Cache, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store is required")
	}
	if keyer == nil {
		return nil, fmt.Errorf("cache keyer is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive")
	}
	return &Cache{store: store, keyer: keyer, ttl: ttl}, nil
}

// GetWindow loads the cached window, returning ErrCacheMiss when absent.
// A payload that fails to decode is treated as a miss and purged.
func (c *Cache) GetWindow(ctx context.Context) ([]PhotoDTO, error) {
	raw, err := c.store.Get(ctx, c.keyer.TrendingKey())
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var window []PhotoDTO
	if err := json.Unmarshal([]byte(raw), &window); err != nil {
		_ = c.store.Del(ctx, c.keyer.TrendingKey())
		return nil, ErrCacheMiss
	}
	return window, nil
}

// SetWindow replaces the cached window and resets its TTL.
func (c *Cache) SetWindow(ctx context.Context, window []PhotoDTO) error {
	if window == nil {
		window = []PhotoDTO{}
	}
	payload, err := json.Marshal(window)
	if err != nil {
		return fmt.Errorf("encoding trending window: %w", err)
	}
	return c.store.Set(ctx, c.keyer.TrendingKey(), string(payload), c.ttl)
}

// Invalidate drops the cached window so the next read rebuilds it.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.store.Del(ctx, c.keyer.TrendingKey())
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/localhostd3veloper/faultline.ai/internal/model"
)

type redisResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

func cacheKey(fp string) string {
	return cacheKeyPrefix + fp
}

func (c *redisResultCache) Get(ctx context.Context, fp string) (*model.CacheEntry, error) {
	data, err := c.client.Get(ctx, cacheKey(fp)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}
	return &entry, nil
}

// Put overwrites unconditionally. A concurrent writer for the same
// fingerprint computed the same result by construction, so
// last-writer-wins is safe.
func (c *redisResultCache) Put(ctx context.Context, fp string, entry *model.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(fp), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

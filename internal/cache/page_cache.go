package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tasker:"

// PageCache caches raw listing pages in Redis. Keys are grouped by scope
// (owner, optionally parent list) so a write can drop every cached page of
// that scope at once.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPageCache returns a new PageCache.
func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, ttl: ttl}
}

// ListsScope is the scope of one user's lists.
func ListsScope(userID uuid.UUID) string {
	return "lists:" + userID.String()
}

// TasksScope is the scope of the tasks in one of a user's lists.
func TasksScope(userID, listID uuid.UUID) string {
	return "tasks:" + userID.String() + ":" + listID.String()
}

func key(scope, query string) string {
	return keyPrefix + scope + ":" + query
}

// Get decodes the cached value into dst. Reports false on a miss.
func (c *PageCache) Get(ctx context.Context, scope, query string, dst any) (bool, error) {
	b, err := c.rdb.Get(ctx, key(scope, query)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under scope/query.
func (c *PageCache) Set(ctx context.Context, scope, query string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(scope, query), b, c.ttl).Err()
}

// Invalidate removes all cached pages of scope (cache invalidation on write).
func (c *PageCache) Invalidate(ctx context.Context, scope string) error {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+scope+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

package service

import (
	"context"
	"time"

	"Tasker/internal/cache"

	"golang.org/x/sync/singleflight"
)

type pageRows[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// loadTimeout bounds a shared load once it is detached from its caller.
const loadTimeout = 15 * time.Second

// loadPage reads one listing page through the cache. Concurrent misses for
// the same key share a single load, which runs detached from the first
// caller's cancellation so one abandoned request does not fail the others.
// With a nil cache it calls load directly.
func loadPage[T any](ctx context.Context, c *cache.PageCache, sf *singleflight.Group, scope, query string,
	load func(context.Context) ([]T, int64, error)) ([]T, int64, error) {
	if c == nil {
		return load(ctx)
	}
	v, err, _ := sf.Do(scope+"|"+query, func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		var rows pageRows[T]
		if ok, err := c.Get(ctx, scope, query, &rows); err == nil && ok {
			return rows, nil
		}
		items, total, err := load(ctx)
		if err != nil {
			return nil, err
		}
		rows = pageRows[T]{Items: items, Total: total}
		_ = c.Set(ctx, scope, query, rows)
		return rows, nil
	})
	if err != nil {
		return nil, 0, err
	}
	rows := v.(pageRows[T])
	return rows.Items, rows.Total, nil
}

func invalidate(ctx context.Context, c *cache.PageCache, scopes ...string) {
	if c == nil {
		return
	}
	for _, s := range scopes {
		_ = c.Invalidate(ctx, s)
	}
}

package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestScopesAndKeys(t *testing.T) {
	user, list := uuid.New(), uuid.New()

	lists := ListsScope(user)
	tasks := TasksScope(user, list)
	if lists == tasks {
		t.Fatal("scopes must differ")
	}
	if !strings.Contains(tasks, list.String()) || !strings.Contains(lists, user.String()) {
		t.Fatalf("scopes = %q, %q", lists, tasks)
	}
	if TasksScope(uuid.New(), list) == tasks {
		t.Fatal("task scope must include the owner")
	}

	k := key(tasks, "1:10")
	if !strings.HasPrefix(k, keyPrefix+tasks+":") {
		t.Fatalf("key = %q", k)
	}
	// a lists-scope SCAN pattern must not reach task pages
	if strings.HasPrefix(k, keyPrefix+lists+":") {
		t.Fatalf("task key %q falls under lists scope", k)
	}
}

// unreachable returns a cache whose server refuses connections.
func unreachable() *PageCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	return NewPageCache(rdb, time.Minute)
}

func TestPageCache_ServerDown(t *testing.T) {
	c := unreachable()
	ctx := context.Background()

	var dst []string
	ok, err := c.Get(ctx, "lists:x", "q", &dst)
	if err == nil || ok {
		t.Fatalf("Get = %v, %v; want error", ok, err)
	}
	if err := c.Set(ctx, "lists:x", "q", []string{"a"}); err == nil {
		t.Fatal("Set: expected error")
	}
	if err := c.Invalidate(ctx, "lists:x"); err == nil {
		t.Fatal("Invalidate: expected error")
	}
}

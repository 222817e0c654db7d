package audiocache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis"
)

func TestRedisCachePutDelete(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := NewRedisCache(client, time.Hour)
	ctx := context.Background()

	key, err := cache.Put(ctx, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.HasPrefix(key, "audio:") {
		t.Errorf("unexpected key %q", key)
	}
	if got, _ := mr.Get(key); got != string([]byte{1, 2, 3}) {
		t.Errorf("unexpected stored value %q", got)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Errorf("expected 1h ttl, got %v", ttl)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists(key) {
		t.Error("expected key to be deleted")
	}
}

func TestNoop(t *testing.T) {
	var c Cache = Noop{}
	key, err := c.Put(context.Background(), []byte("x"))
	if err != nil || key != "" {
		t.Errorf("unexpected %q %v", key, err)
	}
}

func TestRedisCacheUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: 0})
	defer client.Close()
	mr.Close()

	_, err = NewRedisCache(client, time.Minute).Put(context.Background(), []byte("x"))
	if err == nil || !strings.Contains(err.Error(), "caching upload audio:") {
		t.Errorf("expected wrapped cache error, got %v", err)
	}
}

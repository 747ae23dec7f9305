package places

import (
	"context"
	"testing"
	"time"

	"smartdivorce_backend/internal/directory/domain"
	"smartdivorce_backend/platform/logger"
	platformredis "smartdivorce_backend/platform/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewCache(&platformredis.Client{Client: client}, 10*time.Minute, logger.New("development"))
	return cache, mr
}

func TestCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	rating := 4.8
	records := []domain.PlaceRecord{
		{PlaceID: "p1", Name: "Smith Law", Address: "100 Main St", Rating: &rating},
		{PlaceID: "p2", Name: "Garcia Family Law"},
	}

	cache.PutSearch(ctx, "divorce lawyer las vegas", records)

	got, ok := cache.GetSearch(ctx, "divorce lawyer las vegas")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].PlaceID != "p1" || got[0].Rating == nil || *got[0].Rating != 4.8 {
		t.Fatalf("first record = %+v", got[0])
	}
	if got[1].Rating != nil {
		t.Fatal("absent rating must stay nil through the cache")
	}
}

func TestCacheMissOnUnknownQuery(t *testing.T) {
	cache, _ := newTestCache(t)

	if _, ok := cache.GetSearch(context.Background(), "divorce lawyer reno"); ok {
		t.Fatal("expected a miss for a query never cached")
	}
}

func TestCacheEntryExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.PutSearch(ctx, "divorce lawyer henderson", []domain.PlaceRecord{{PlaceID: "p1", Name: "Smith Law"}})
	mr.FastForward(11 * time.Minute)

	if _, ok := cache.GetSearch(ctx, "divorce lawyer henderson"); ok {
		t.Fatal("expected a miss after the TTL elapsed")
	}
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	cache, mr := newTestCache(t)

	if err := mr.Set(cacheKeyPrefix+"divorce lawyer", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, ok := cache.GetSearch(context.Background(), "divorce lawyer"); ok {
		t.Fatal("corrupt entry must read as a miss")
	}
}

func TestNilClientDisablesCache(t *testing.T) {
	cache := NewCache(nil, time.Minute, logger.New("development"))
	ctx := context.Background()

	cache.PutSearch(ctx, "q", []domain.PlaceRecord{{PlaceID: "p1"}})
	if _, ok := cache.GetSearch(ctx, "q"); ok {
		t.Fatal("nil client must never hit")
	}
}

package redis

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/wonny/investor/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(&config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping() on disabled client error = %v", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on disabled client error = %v", err)
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set() error = %v", err)
	}

	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	n, err := cache.DeletePattern(ctx, RankingPattern())
	if err != nil || n != 0 {
		t.Errorf("DeletePattern() = %d, %v", n, err)
	}

	gen, err := cache.Incr(ctx, RankingGenerationKey())
	if err != nil || gen != 0 {
		t.Errorf("Incr() = %d, %v", gen, err)
	}
}

func TestCache_NilIsDisabled(t *testing.T) {
	var cache *Cache
	if cache.Enabled() {
		t.Error("nil cache should report disabled")
	}
}

func TestRankingKey(t *testing.T) {
	if got := RankingKey(3, "nd-ebitda", 10); got != "rank:3:nd-ebitda:10" {
		t.Errorf("RankingKey() = %s", got)
	}
}

func TestRankingGenerationKey_OutsidePattern(t *testing.T) {
	matched, err := path.Match(RankingPattern(), RankingGenerationKey())
	if err != nil {
		t.Fatalf("Match() error = %v", err)
	}
	if matched {
		t.Errorf("%q must not match %q", RankingGenerationKey(), RankingPattern())
	}
}

func TestCache_RoundTrip(t *testing.T) {
	// Skip if REDIS_HOST is not set
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}

	client, err := New(&config.Config{
		Redis: config.RedisConfig{
			Host:    host,
			Port:    "6379",
			Enabled: true,
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	cache := NewCache(client, "investor_test")
	ctx := context.Background()

	type payload struct {
		Ticker string  `json:"ticker"`
		Value  float64 `json:"value"`
	}

	if err := cache.Set(ctx, RankingKey(0, "roe", 1), payload{"AAA", 0.12}, time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	found, err := cache.Get(ctx, RankingKey(0, "roe", 1), &got)
	if err != nil || !found {
		t.Fatalf("Get() = %v, %v", found, err)
	}
	if got.Ticker != "AAA" || got.Value != 0.12 {
		t.Errorf("Get() = %+v", got)
	}

	n, err := cache.DeletePattern(ctx, RankingPattern())
	if err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}
	if n < 1 {
		t.Errorf("DeletePattern() deleted %d keys, want >= 1", n)
	}

	found, _ = cache.Get(ctx, RankingKey(0, "roe", 1), &got)
	if found {
		t.Error("Expected cache miss after DeletePattern")
	}

	before, err := cache.Incr(ctx, RankingGenerationKey())
	if err != nil {
		t.Fatalf("Incr() error = %v", err)
	}
	after, err := cache.Incr(ctx, RankingGenerationKey())
	if err != nil {
		t.Fatalf("Incr() error = %v", err)
	}
	if after != before+1 {
		t.Errorf("Incr() = %d after %d", after, before)
	}
}

package bootstrap

import (
	"context"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/store"
)

func TestNewCacheMemory(t *testing.T) {
	cache, closer, err := NewCache(context.Background(), &config.AppConfig{CacheBackend: "memory", CacheMaxEntries: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if closer != nil {
		t.Fatalf("expected no closer for the memory cache")
	}
	if _, ok := cache.(*store.MemoryCache); !ok {
		t.Fatalf("expected *store.MemoryCache, got %T", cache)
	}
}

func TestNewCacheRedisBadURL(t *testing.T) {
	_, _, err := NewCache(context.Background(), &config.AppConfig{CacheBackend: "redis", RedisURL: "://nope"})
	if err == nil {
		t.Fatalf("expected error for invalid redis url")
	}
}

func TestInitService(t *testing.T) {
	cfg := &config.AppConfig{
		OpenWeatherAPIKey: "key",
		CacheBackend:      "memory",
		Timezone:          "UTC",
	}

	bundle, err := InitService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bundle.Close()

	if bundle.Service == nil || bundle.Source == nil {
		t.Fatalf("expected service and source to be built")
	}
	if bundle.Source.Name() != "openweathermap [Cached]" {
		t.Fatalf("unexpected source name %q", bundle.Source.Name())
	}

	cfg.Timezone = "Nowhere/Special"
	if _, err := InitService(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unknown timezone")
	}
}

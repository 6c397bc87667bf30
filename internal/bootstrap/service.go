package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// ServiceBundle holds the pipeline and everything that must be released with it.
type ServiceBundle struct {
	Service *weather.Service
	Source  *weather.CachedSource
	closers []func() error
}

// Close releases resources opened by InitService.
func (b *ServiceBundle) Close() {
	for _, c := range b.closers {
		if err := c(); err != nil {
			log.Warnf("[bootstrap] close: %v", err)
		}
	}
}

// NewCache returns the cache backend selected by cfg.
func NewCache(ctx context.Context, cfg *config.AppConfig) (weather.Cache, func() error, error) {
	switch cfg.CacheBackend {
	case "redis":
		rc, err := store.OpenRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		log.Info("[bootstrap] redis cache connected")
		return rc, rc.Close, nil
	default:
		return store.NewMemoryCache(cfg.CacheMaxEntries), nil, nil
	}
}

// InitService builds provider -> cache -> normalizer -> service from configuration.
func InitService(ctx context.Context, cfg *config.AppConfig) (*ServiceBundle, error) {
	zone, err := cfg.Zone()
	if err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, providers.OpenWeatherConfig{
		APIKey:         cfg.OpenWeatherAPIKey,
		BaseURL:        cfg.OpenWeatherBaseURL,
		Units:          cfg.Units,
		ForecastPoints: cfg.ForecastPoints,
	})

	cache, closeCache, err := NewCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bundle := &ServiceBundle{}
	if closeCache != nil {
		bundle.closers = append(bundle.closers, closeCache)
	}

	bundle.Source = weather.NewCachedSource(provider, cache, cfg.CacheTTL)
	bundle.Service = weather.NewService(bundle.Source, weather.NewNormalizer(weather.WithZone(zone)))
	return bundle, nil
}

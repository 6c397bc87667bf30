package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

var envKeys = []string{
	"CONFIG_FILE", "OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "WEATHER_UNITS",
	"FORECAST_POINTS", "HTTP_TIMEOUT", "CACHE_BACKEND", "CACHE_TTL", "CACHE_MAX_ENTRIES",
	"REDIS_URL", "REFRESH_INTERVAL", "WEATHER_LOCATION_CITY", "WEATHER_LOCATION_COUNTRY",
	"TIMEZONE", "PORT", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CacheBackend != "memory" || cfg.CacheTTL != 10*time.Minute || cfg.CacheMaxEntries != 512 {
		t.Fatalf("unexpected cache defaults %+v", cfg)
	}
	if cfg.Units != "metric" || cfg.ForecastPoints != 40 || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if len(cfg.Locations) != len(DefaultCities) {
		t.Fatalf("expected %d default locations, got %d", len(DefaultCities), len(cfg.Locations))
	}
	zone, err := cfg.Zone()
	if err != nil || zone != time.UTC {
		t.Fatalf("expected UTC zone, got %v (%v)", zone, err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "secret")
	t.Setenv("CACHE_BACKEND", "Redis")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("HTTP_TIMEOUT", "3s")
	t.Setenv("FORECAST_POINTS", "16")
	t.Setenv("WEATHER_LOCATION_CITY", "Paris, New York")
	t.Setenv("WEATHER_LOCATION_COUNTRY", "FR,US")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "secret" || cfg.CacheBackend != "redis" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.HTTPTimeout != 3*time.Second || cfg.ForecastPoints != 16 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	want := []weather.Location{{City: "Paris", Country: "FR"}, {City: "New York", Country: "US"}}
	if len(cfg.Locations) != len(want) {
		t.Fatalf("expected %d locations, got %d", len(want), len(cfg.Locations))
	}
	for i := range want {
		if cfg.Locations[i] != want[i] {
			t.Fatalf("location %d: expected %+v, got %+v", i, want[i], cfg.Locations[i])
		}
	}
}

func TestLoadCitiesWithoutCountries(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHER_LOCATION_CITY", "Tokyo")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0] != (weather.Location{City: "Tokyo"}) {
		t.Fatalf("unexpected locations %+v", cfg.Locations)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"locations mismatch": {"WEATHER_LOCATION_CITY": "Paris,Tokyo", "WEATHER_LOCATION_COUNTRY": "FR"},
		"bad backend":        {"CACHE_BACKEND": "memcached"},
		"bad duration":       {"CACHE_TTL": "ten minutes"},
		"zero ttl":           {"CACHE_TTL": "0s"},
		"bad timezone":       {"TIMEZONE": "Mars/Olympus_Mons"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "weather.yaml")
	content := `
units: imperial
cache_ttl: 2m
refresh_interval: 30m
timezone: Europe/Paris
locations:
  - city: Lisbon
    country: PT
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Units != "imperial" || cfg.CacheTTL != 2*time.Minute || cfg.RefreshInterval != 30*time.Minute {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Port != "9090" {
		t.Fatalf("expected env to override file, got port %q", cfg.Port)
	}
	if len(cfg.Locations) != 1 || cfg.Locations[0] != (weather.Location{City: "Lisbon", Country: "PT"}) {
		t.Fatalf("unexpected locations %+v", cfg.Locations)
	}
	if zone, err := cfg.Zone(); err != nil || zone.String() != "Europe/Paris" {
		t.Fatalf("unexpected zone %v (%v)", zone, err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

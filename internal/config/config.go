package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in images without a zoneinfo database

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// DefaultCities are tracked when no locations are configured.
var DefaultCities = []string{"London", "New York", "Tokyo", "Paris", "Sydney"}

type AppConfig struct {
	OpenWeatherAPIKey  string `yaml:"openweather_api_key"`
	OpenWeatherBaseURL string `yaml:"openweather_base_url"`
	Units              string `yaml:"units"`
	ForecastPoints     int    `yaml:"forecast_points"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`

	// Cache backend for raw responses: "memory" or "redis".
	CacheBackend    string        `yaml:"cache_backend"`
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	CacheMaxEntries int           `yaml:"cache_max_entries"` // 0 = unlimited
	RedisURL        string        `yaml:"redis_url"`

	// RefreshInterval controls how often the scheduler refreshes each location.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// Locations to track.
	Locations []weather.Location `yaml:"locations"`

	// Timezone timestamps are decoded into and days are grouped by.
	Timezone string `yaml:"timezone"`

	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// Zone resolves Timezone to a *time.Location.
func (c *AppConfig) Zone() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

func defaults() *AppConfig {
	cfg := &AppConfig{
		OpenWeatherBaseURL: "https://api.openweathermap.org/data/2.5",
		Units:              "metric",
		ForecastPoints:     40,
		HTTPTimeout:        10 * time.Second,
		CacheBackend:       "memory",
		CacheTTL:           10 * time.Minute,
		CacheMaxEntries:    512,
		RedisURL:           "redis://localhost:6379",
		RefreshInterval:    15 * time.Minute,
		Timezone:           "UTC",
		Port:               "8080",
		LogLevel:           "info",
	}
	for _, city := range DefaultCities {
		cfg.Locations = append(cfg.Locations, weather.Location{City: city})
	}
	return cfg
}

// Load reads configuration from an optional YAML file (CONFIG_FILE), then from the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file found or error loading it: %v", err)
	}
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", cfg.OpenWeatherAPIKey)
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", cfg.OpenWeatherBaseURL)
	cfg.Units = getenvDefault("WEATHER_UNITS", cfg.Units)
	cfg.ForecastPoints = getenvInt("FORECAST_POINTS", cfg.ForecastPoints)
	cfg.CacheBackend = strings.ToLower(getenvDefault("CACHE_BACKEND", cfg.CacheBackend))
	cfg.CacheMaxEntries = getenvInt("CACHE_MAX_ENTRIES", cfg.CacheMaxEntries)
	cfg.RedisURL = getenvDefault("REDIS_URL", cfg.RedisURL)
	cfg.Timezone = getenvDefault("TIMEZONE", cfg.Timezone)
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", cfg.RefreshInterval); err != nil {
		return err
	}

	locs, err := loadLocations()
	if err != nil {
		return err
	}
	if len(locs) > 0 {
		cfg.Locations = locs
	}
	return nil
}

func (c *AppConfig) validate() error {
	switch c.CacheBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: want memory or redis", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	if _, err := c.Zone(); err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	return nil
}

// loadLocations reads WEATHER_LOCATION_CITY / WEATHER_LOCATION_COUNTRY as parallel
// comma-separated lists. The country list may be omitted entirely.
func loadLocations() ([]weather.Location, error) {
	city := os.Getenv("WEATHER_LOCATION_CITY")
	if strings.TrimSpace(city) == "" {
		return nil, nil
	}
	cities := strings.Split(city, ",")

	var countries []string
	if country := os.Getenv("WEATHER_LOCATION_COUNTRY"); country != "" {
		countries = strings.Split(country, ",")
		if len(cities) != len(countries) {
			return nil, fmt.Errorf("number of cities and countries must be the same")
		}
	}

	var locs []weather.Location
	for i := range cities {
		loc := weather.Location{City: strings.TrimSpace(cities[i])}
		if countries != nil {
			loc.Country = strings.TrimSpace(countries[i])
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

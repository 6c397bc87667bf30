package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultUnits              = "metric"

	// DefaultForecastPoints is the full 5 day horizon at 3 hour spacing.
	DefaultForecastPoints = 40
)

// OpenWeatherConfig holds everything the provider needs; nothing is read from the
// environment at request time.
type OpenWeatherConfig struct {
	APIKey         string
	BaseURL        string
	Units          string
	ForecastPoints int
}

// OpenWeatherProvider implements the weather.Source interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	cfg     OpenWeatherConfig
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherProvider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultOpenWeatherBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Units == "" {
		cfg.Units = DefaultUnits
	}
	if cfg.ForecastPoints <= 0 || cfg.ForecastPoints > DefaultForecastPoints {
		cfg.ForecastPoints = DefaultForecastPoints
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		cfg:     cfg,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchCurrent requests current conditions for loc.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, loc weather.Location) (weather.RawCurrentReading, error) {
	body, err := p.get(ctx, "/weather", loc, nil)
	if err != nil {
		return weather.RawCurrentReading{}, err
	}
	return weather.DecodeCurrent(body)
}

// FetchForecast requests the multi-point forecast for loc.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) (weather.RawForecast, error) {
	extra := url.Values{}
	extra.Set("cnt", strconv.Itoa(p.cfg.ForecastPoints))

	body, err := p.get(ctx, "/forecast", loc, extra)
	if err != nil {
		return weather.RawForecast{}, err
	}
	return weather.DecodeForecast(body)
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, loc weather.Location, extra url.Values) ([]byte, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}
	if strings.TrimSpace(loc.City) == "" {
		return nil, fmt.Errorf("openweather: location city is required")
	}

	values := url.Values{}
	values.Set("q", loc.Query())
	values.Set("appid", p.cfg.APIKey)
	values.Set("units", p.cfg.Units)
	for k, vs := range extra {
		for _, v := range vs {
			values.Add(k, v)
		}
	}

	u := fmt.Sprintf("%s%s?%s", p.cfg.BaseURL, path, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	body, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", p.name, path, err)
	}
	return body, nil
}

var _ weather.Source = (*OpenWeatherProvider)(nil)

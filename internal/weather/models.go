package weather

import (
	"strings"
	"time"
)

// Location represents a logical place for which we fetch weather.
// City must be provided; Country narrows ambiguous city names.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for indexing this location in caches.
func (l Location) Key() string {
	return strings.ToLower(strings.TrimSpace(l.City)) + ":" + strings.ToLower(strings.TrimSpace(l.Country))
}

// Query returns the "city" or "city,country" form the weather API expects.
func (l Location) Query() string {
	city := strings.TrimSpace(l.City)
	if country := strings.TrimSpace(l.Country); country != "" {
		return city + "," + country
	}
	return city
}

// NormalizedReading is the flat, fixed-schema record produced from a raw reading.
// Timestamp is always a decoded calendar time, Humidity is always within [0,100].
type NormalizedReading struct {
	Location    string    `json:"location"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Condition   string    `json:"condition"`
}

// DailyAggregate summarizes all forecast readings that fall on one calendar day.
type DailyAggregate struct {
	Location       string    `json:"location"`
	Date           time.Time `json:"date"` // midnight of the day, in the readings' zone
	Points         int       `json:"points"`
	AvgTemperature float64   `json:"avg_temperature"`
	MinTemperature float64   `json:"min_temperature"`
	MaxTemperature float64   `json:"max_temperature"`
	AvgFeelsLike   float64   `json:"avg_feels_like"`
	AvgHumidity    float64   `json:"avg_humidity"`
	AvgWindSpeed   float64   `json:"avg_wind_speed"`
	Condition      string    `json:"condition"`
}

// Report is the result of one pipeline run for a location.
type Report struct {
	RunID     string              `json:"run_id"`
	Location  Location            `json:"location"`
	FetchedAt time.Time           `json:"fetched_at"`
	Current   NormalizedReading   `json:"current"`
	Forecast  []NormalizedReading `json:"forecast"`
	Daily     []DailyAggregate    `json:"daily"`
}

// CurrentDetails is the current-conditions card: the fixed reading plus whatever
// optional extras the source supplied. Absent extras stay nil.
type CurrentDetails struct {
	NormalizedReading
	Country       string     `json:"country,omitempty"`
	Description   string     `json:"description,omitempty"`
	Pressure      *float64   `json:"pressure,omitempty"` // hPa
	VisibilityKm  *float64   `json:"visibility_km,omitempty"`
	WindDirection *float64   `json:"wind_direction,omitempty"` // degrees
	Sunrise       *time.Time `json:"sunrise,omitempty"`
	Sunset        *time.Time `json:"sunset,omitempty"`
}

// PressurePoint is one forecast point's sea-level pressure.
type PressurePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Pressure  float64   `json:"pressure"` // hPa
}

// PressureSeries is the forecast's pressure trend for a location.
type PressureSeries struct {
	Location string          `json:"location"`
	Country  string          `json:"country,omitempty"`
	Points   []PressurePoint `json:"points"`
}

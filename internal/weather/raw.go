package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Epoch holds the raw text of a source timestamp (seconds since the Unix epoch, UTC)
// until the Normalizer decodes it.
type Epoch string

// UnmarshalJSON accepts either a JSON number or a quoted number.
func (e *Epoch) UnmarshalJSON(b []byte) error {
	*e = Epoch(strings.Trim(strings.TrimSpace(string(b)), `"`))
	return nil
}

// MarshalJSON writes integral values back as bare numbers.
func (e Epoch) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(e), 10, 64); err == nil {
		return []byte(e), nil
	}
	return json.Marshal(string(e))
}

// RawCurrentReading mirrors the OpenWeatherMap current-conditions payload.
// Required fields are pointers so that an absent key is not mistaken for a zero value.
type RawCurrentReading struct {
	Name    *string        `json:"name" validate:"required,notblank"`
	Dt      *Epoch         `json:"dt" validate:"required"`
	Main    *RawMain       `json:"main" validate:"required"`
	Wind    *RawWind       `json:"wind" validate:"required"`
	Weather []RawCondition `json:"weather" validate:"required,min=1,dive"`

	// Optional extras shown on the details card.
	Visibility *float64 `json:"visibility,omitempty"` // meters
	Sys        *RawSys  `json:"sys,omitempty"`
}

// RawSys carries the country code and the day's sun times.
type RawSys struct {
	Country string `json:"country,omitempty"`
	Sunrise *Epoch `json:"sunrise,omitempty"`
	Sunset  *Epoch `json:"sunset,omitempty"`
}

// RawForecast mirrors the OpenWeatherMap 5 day / 3 hour forecast envelope.
type RawForecast struct {
	City *RawCity           `json:"city"`
	List []RawForecastPoint `json:"list"`
}

// RawCity is the forecast envelope's location block.
type RawCity struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
}

// RawForecastPoint is a single entry of a forecast's list.
type RawForecastPoint struct {
	Dt      *Epoch         `json:"dt" validate:"required"`
	Main    *RawMain       `json:"main" validate:"required"`
	Wind    *RawWind       `json:"wind" validate:"required"`
	Weather []RawCondition `json:"weather" validate:"required,min=1,dive"`
	DtTxt   string         `json:"dt_txt,omitempty"`
}

type RawMain struct {
	Temp      *float64 `json:"temp" validate:"required"`
	FeelsLike *float64 `json:"feels_like" validate:"required"`
	Humidity  *float64 `json:"humidity" validate:"required,gte=0,lte=100"`
	Pressure  *float64 `json:"pressure,omitempty"`
}

type RawWind struct {
	Speed *float64 `json:"speed" validate:"required"`
	Deg   *float64 `json:"deg,omitempty"`
}

type RawCondition struct {
	Main        *string `json:"main" validate:"required"`
	Description string  `json:"description,omitempty"`
}

// DecodeCurrent parses a current-conditions payload.
func DecodeCurrent(data []byte) (RawCurrentReading, error) {
	var raw RawCurrentReading
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawCurrentReading{}, fmt.Errorf("%w: current conditions: %v", ErrMalformedPayload, err)
	}
	return raw, nil
}

// DecodeForecast parses a forecast payload.
func DecodeForecast(data []byte) (RawForecast, error) {
	var raw RawForecast
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawForecast{}, fmt.Errorf("%w: forecast: %v", ErrMalformedPayload, err)
	}
	return raw, nil
}

package weather

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// maxYear is the last year with a four-digit ISO-8601 rendering.
const maxYear = 9999

var maxEpoch = time.Date(maxYear, time.December, 31, 23, 59, 59, 0, time.UTC).Unix()

var validate = newValidator()

// newValidator reports field names by their JSON key so errors name the raw field.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Normalizer converts raw source records into NormalizedReading values.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	zone *time.Location
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithZone sets the zone decoded timestamps are expressed in. Calendar-day grouping
// follows the same zone. Defaults to UTC.
func WithZone(zone *time.Location) Option {
	return func(n *Normalizer) {
		if zone != nil {
			n.zone = zone
		}
	}
}

// NewNormalizer creates a Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{zone: time.UTC}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Zone returns the zone timestamps are decoded into.
func (n *Normalizer) Zone() *time.Location {
	return n.zone
}

// NormalizeCurrent converts a current-conditions record. Required fields are checked
// before anything is built, so a failure never yields a partial reading.
func (n *Normalizer) NormalizeCurrent(raw RawCurrentReading) (NormalizedReading, error) {
	if err := checkSchema(raw); err != nil {
		return NormalizedReading{}, err
	}
	return n.build(*raw.Name, *raw.Dt, raw.Main, raw.Wind, raw.Weather)
}

// NormalizeForecast converts every forecast point, preserving order. An empty input
// yields an empty result. The first invalid point fails the whole batch.
func (n *Normalizer) NormalizeForecast(location string, points []RawForecastPoint) ([]NormalizedReading, error) {
	out := make([]NormalizedReading, 0, len(points))
	if len(points) == 0 {
		return out, nil
	}
	if strings.TrimSpace(location) == "" {
		return nil, &MissingFieldError{Field: "city.name"}
	}

	for i, p := range points {
		if err := checkSchema(p); err != nil {
			return nil, fmt.Errorf("forecast point %d: %w", i, err)
		}
		r, err := n.build(location, *p.Dt, p.Main, p.Wind, p.Weather)
		if err != nil {
			return nil, fmt.Errorf("forecast point %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// NormalizeForecastResponse takes the location from the forecast envelope and
// normalizes its list.
func (n *Normalizer) NormalizeForecastResponse(raw RawForecast) ([]NormalizedReading, error) {
	var location string
	if raw.City != nil {
		location = raw.City.Name
	}
	return n.NormalizeForecast(location, raw.List)
}

// NormalizeCurrentDetails converts a current-conditions record into the details card.
// The fixed reading is validated exactly as in NormalizeCurrent; optional extras are
// copied when present, and a present but undecodable sun time fails the record.
func (n *Normalizer) NormalizeCurrentDetails(raw RawCurrentReading) (CurrentDetails, error) {
	reading, err := n.NormalizeCurrent(raw)
	if err != nil {
		return CurrentDetails{}, err
	}

	d := CurrentDetails{
		NormalizedReading: reading,
		Description:       raw.Weather[0].Description,
		Pressure:          copyFloat(raw.Main.Pressure),
		WindDirection:     copyFloat(raw.Wind.Deg),
	}
	if raw.Visibility != nil {
		km := *raw.Visibility / 1000
		d.VisibilityKm = &km
	}
	if raw.Sys != nil {
		d.Country = raw.Sys.Country
		if d.Sunrise, err = n.optionalTimestamp("sys.sunrise", raw.Sys.Sunrise); err != nil {
			return CurrentDetails{}, err
		}
		if d.Sunset, err = n.optionalTimestamp("sys.sunset", raw.Sys.Sunset); err != nil {
			return CurrentDetails{}, err
		}
	}
	return d, nil
}

// NormalizePressureSeries extracts the pressure trend of a forecast. Points are
// validated like NormalizeForecastResponse does; points without a pressure are skipped.
func (n *Normalizer) NormalizePressureSeries(raw RawForecast) (PressureSeries, error) {
	readings, err := n.NormalizeForecastResponse(raw)
	if err != nil {
		return PressureSeries{}, err
	}

	series := PressureSeries{Points: make([]PressurePoint, 0, len(readings))}
	if raw.City != nil {
		series.Location = raw.City.Name
		series.Country = raw.City.Country
	}
	for i, p := range raw.List {
		if p.Main.Pressure == nil {
			continue
		}
		series.Points = append(series.Points, PressurePoint{
			Timestamp: readings[i].Timestamp,
			Pressure:  *p.Main.Pressure,
		})
	}
	return series, nil
}

func (n *Normalizer) build(location string, dt Epoch, main *RawMain, wind *RawWind, conds []RawCondition) (NormalizedReading, error) {
	ts, err := n.decodeTimestamp("dt", dt)
	if err != nil {
		return NormalizedReading{}, err
	}

	return NormalizedReading{
		Location:    location,
		Timestamp:   ts,
		Temperature: *main.Temp,
		FeelsLike:   *main.FeelsLike,
		Humidity:    int(math.Round(*main.Humidity)),
		WindSpeed:   *wind.Speed,
		Condition:   *conds[0].Main,
	}, nil
}

// decodeTimestamp turns epoch seconds into a time in the normalizer's zone. Values
// before the epoch or past year 9999 have no ISO-8601 rendering and are rejected.
func (n *Normalizer) decodeTimestamp(field string, dt Epoch) (time.Time, error) {
	secs, err := strconv.ParseInt(strings.TrimSpace(string(dt)), 10, 64)
	if err != nil {
		return time.Time{}, &InvalidTimestampError{Field: field, Value: string(dt), Err: err}
	}
	if secs < 0 || secs > maxEpoch {
		return time.Time{}, &InvalidTimestampError{Field: field, Value: string(dt)}
	}
	ts := time.Unix(secs, 0).In(n.zone)
	if ts.Year() > maxYear {
		return time.Time{}, &InvalidTimestampError{Field: field, Value: string(dt)}
	}
	return ts, nil
}

func (n *Normalizer) optionalTimestamp(field string, dt *Epoch) (*time.Time, error) {
	if dt == nil {
		return nil, nil
	}
	ts, err := n.decodeTimestamp(field, *dt)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// checkSchema validates a raw record's struct tags and maps the first failure to a
// MissingFieldError or InvalidValueError.
func checkSchema(raw any) error {
	err := validate.Struct(raw)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	path := fieldPath(fe.Namespace())

	if fe.Tag() == "required" || fe.Tag() == "notblank" || (fe.Tag() == "min" && fe.Kind() == reflect.Slice) {
		return &MissingFieldError{Field: path}
	}
	return &InvalidValueError{
		Field: path,
		Value: derefValue(fe.Value()),
		Rule:  fe.Tag() + "=" + fe.Param(),
	}
}

// fieldPath drops the struct type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func derefValue(v any) any {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

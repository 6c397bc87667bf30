// Package export serializes normalized weather data for consumers outside the service.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// TimestampLayout is the human-readable form timestamps are written in.
const TimestampLayout = "2006-01-02T15:04:05"

const dateLayout = "2006-01-02"

// Dataset names one of the exportable tables.
type Dataset string

const (
	DatasetCurrent  Dataset = "current"
	DatasetForecast Dataset = "forecast"
	DatasetDaily    Dataset = "daily"
)

var (
	ReadingColumns = []string{"location", "timestamp", "temperature", "feels_like", "humidity", "wind_speed", "condition"}
	DailyColumns   = []string{
		"location", "date", "points",
		"avg_temperature", "min_temperature", "max_temperature",
		"avg_feels_like", "avg_humidity", "avg_wind_speed", "condition",
	}
)

// WriteReadings writes a header row followed by one row per reading.
func WriteReadings(w io.Writer, readings []weather.NormalizedReading) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ReadingColumns); err != nil {
		return err
	}
	for _, r := range readings {
		row := []string{
			r.Location,
			r.Timestamp.Format(TimestampLayout),
			formatFloat(r.Temperature),
			formatFloat(r.FeelsLike),
			strconv.Itoa(r.Humidity),
			formatFloat(r.WindSpeed),
			r.Condition,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDaily writes a header row followed by one row per day.
func WriteDaily(w io.Writer, days []weather.DailyAggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(DailyColumns); err != nil {
		return err
	}
	for _, d := range days {
		row := []string{
			d.Location,
			d.Date.Format(dateLayout),
			strconv.Itoa(d.Points),
			formatFloat(d.AvgTemperature),
			formatFloat(d.MinTemperature),
			formatFloat(d.MaxTemperature),
			formatFloat(d.AvgFeelsLike),
			formatFloat(d.AvgHumidity),
			formatFloat(d.AvgWindSpeed),
			d.Condition,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDataset writes the named table of a pipeline report.
func WriteDataset(w io.Writer, report weather.Report, dataset Dataset) error {
	switch dataset {
	case DatasetCurrent:
		return WriteReadings(w, []weather.NormalizedReading{report.Current})
	case DatasetForecast:
		return WriteReadings(w, report.Forecast)
	case DatasetDaily:
		return WriteDaily(w, report.Daily)
	default:
		return fmt.Errorf("unknown dataset %q", dataset)
	}
}

// FileName returns the download name for a city's dataset, e.g. "New_York_forecast_weather_data.csv".
func FileName(city string, dataset Dataset) string {
	name := strings.Join(strings.Fields(city), "_")
	if name == "" {
		name = "weather"
	}
	return fmt.Sprintf("%s_%s_weather_data.csv", name, dataset)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

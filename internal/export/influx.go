package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	influx "github.com/influxdata/influxdb/client/v2"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// InfluxConfig describes the target database for normalized readings.
type InfluxConfig struct {
	Addr        string
	Username    string
	Password    string
	Database    string
	Measurement string
}

func (c InfluxConfig) withDefaults() InfluxConfig {
	if c.Addr == "" {
		c.Addr = "http://localhost:8086"
	}
	if c.Database == "" {
		c.Database = "weather"
	}
	if c.Measurement == "" {
		c.Measurement = "weather"
	}
	return c
}

// NewBatch builds one point per reading, stamped with the reading's own time.
func NewBatch(cfg InfluxConfig, readings []weather.NormalizedReading) (influx.BatchPoints, error) {
	cfg = cfg.withDefaults()

	bp, err := influx.NewBatchPoints(influx.BatchPointsConfig{
		Database:  cfg.Database,
		Precision: "s",
	})
	if err != nil {
		return nil, err
	}

	for i, r := range readings {
		p, err := influx.NewPoint(cfg.Measurement,
			map[string]string{
				"location":  r.Location,
				"condition": r.Condition,
				"provider":  "openweathermap",
			},
			map[string]interface{}{
				"temperature": r.Temperature,
				"feels_like":  r.FeelsLike,
				"humidity":    r.Humidity,
				"wind_speed":  r.WindSpeed,
			},
			r.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("reading %d: %w", i, err)
		}
		bp.AddPoint(p)
	}
	return bp, nil
}

// LineProtocol renders a batch as InfluxDB line protocol, one point per line.
func LineProtocol(bp influx.BatchPoints) string {
	var sb strings.Builder
	for _, p := range bp.Points() {
		if p == nil {
			continue
		}
		sb.WriteString(p.PrecisionString(bp.Precision()))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Upload pings the server and writes the batch.
func Upload(ctx context.Context, cfg InfluxConfig, bp influx.BatchPoints) error {
	cfg = cfg.withDefaults()

	c, err := influx.NewHTTPClient(influx.HTTPConfig{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return err
	}
	defer c.Close()

	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if _, _, err := c.Ping(timeout); err != nil {
		return fmt.Errorf("influx ping %s: %w", cfg.Addr, err)
	}

	if err := c.Write(bp); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/i474232898/weather-dashboard/internal/bootstrap"
	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/export"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run does the whole export so deferred cleanup happens before the process exits.
func run() error {
	var city = flag.StringP("city", "c", "", "city name, e.g. London or \"New York\"")
	var country = flag.String("country", "", "optional ISO country code to disambiguate the city")
	var outDir = flag.StringP("out-dir", "o", ".", "directory CSV files are written to")
	var datasets = flag.StringSlice("dataset", []string{"current", "forecast", "daily"}, "datasets to export (current, forecast, daily)")
	var lineProtocol = flag.Bool("line-protocol", false, "print current and forecast readings as InfluxDB line protocol")
	var upload = flag.Bool("influx-upload", false, "upload current and forecast readings to InfluxDB")
	var influxAddr = flag.String("influx-addr", "http://localhost:8086", "InfluxDB HTTP address")
	var influxUser = flag.String("influx-user", "", "InfluxDB username")
	var influxPass = flag.String("influx-password", "", "InfluxDB password")
	var influxDB = flag.String("influx-db", "weather", "InfluxDB database")
	var measurement = flag.String("measurement", "weather", "InfluxDB measurement name")
	var timeout = flag.Duration("timeout", 30*time.Second, "overall timeout for fetching and uploading")

	flag.Parse()

	if *city == "" {
		flag.Usage()
		return errors.New("please specify a city")
	}
	if !common.ValidCityName(*city) {
		return fmt.Errorf("invalid city name %q: use letters, spaces and - ' , . only", *city)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	bundle, err := bootstrap.InitService(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build weather service: %w", err)
	}
	defer bundle.Close()

	loc := weather.Location{City: *city, Country: *country}
	report, err := bundle.Service.Run(ctx, loc)
	if err != nil {
		return fmt.Errorf("failed to fetch weather for %s: %w", loc.Query(), err)
	}

	files, err := render(report, *datasets)
	if err != nil {
		return err
	}

	if *lineProtocol || *upload {
		influxCfg := export.InfluxConfig{
			Addr:        *influxAddr,
			Username:    *influxUser,
			Password:    *influxPass,
			Database:    *influxDB,
			Measurement: *measurement,
		}
		readings := append([]weather.NormalizedReading{report.Current}, report.Forecast...)

		bp, err := export.NewBatch(influxCfg, readings)
		if err != nil {
			return err
		}
		if *lineProtocol {
			fmt.Print(export.LineProtocol(bp))
		}
		if *upload {
			if err := export.Upload(ctx, influxCfg, bp); err != nil {
				return err
			}
			log.Infof("uploaded %d points to %s", len(bp.Points()), *influxAddr)
		}
	}

	return writeFiles(*outDir, files)
}

func writeFiles(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Infof("wrote %s", path)
	}
	return nil
}

// render serializes every requested dataset before anything touches the disk.
func render(report weather.Report, datasets []string) (map[string][]byte, error) {
	files := make(map[string][]byte, len(datasets))
	for _, name := range datasets {
		dataset := export.Dataset(name)

		var buf bytes.Buffer
		if err := export.WriteDataset(&buf, report, dataset); err != nil {
			return nil, err
		}
		files[export.FileName(report.Location.City, dataset)] = buf.Bytes()
	}
	return files, nil
}

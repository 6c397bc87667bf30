package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Service composes a Source with the Normalizer. Every call fetches, then normalizes;
// a failure at either step aborts the call with no partial result.
type Service struct {
	source     Source
	normalizer *Normalizer
	now        func() time.Time
}

// NewService creates a new Service.
func NewService(source Source, normalizer *Normalizer) *Service {
	if normalizer == nil {
		normalizer = NewNormalizer()
	}
	return &Service{
		source:     source,
		normalizer: normalizer,
		now:        time.Now,
	}
}

// Current fetches and normalizes current conditions for loc.
func (s *Service) Current(ctx context.Context, loc Location) (NormalizedReading, error) {
	raw, err := s.source.FetchCurrent(ctx, loc)
	if err != nil {
		return NormalizedReading{}, fmt.Errorf("fetch current conditions for %s: %w", loc.Query(), err)
	}

	reading, err := s.normalizer.NormalizeCurrent(raw)
	if err != nil {
		return NormalizedReading{}, fmt.Errorf("normalize current conditions for %s: %w", loc.Query(), err)
	}
	return reading, nil
}

// Forecast fetches and normalizes the forecast for loc, in source order.
func (s *Service) Forecast(ctx context.Context, loc Location) ([]NormalizedReading, error) {
	raw, err := s.source.FetchForecast(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %s: %w", loc.Query(), err)
	}

	readings, err := s.normalizer.NormalizeForecastResponse(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize forecast for %s: %w", loc.Query(), err)
	}
	return readings, nil
}

// CurrentDetails fetches current conditions for loc and normalizes them into the
// details card.
func (s *Service) CurrentDetails(ctx context.Context, loc Location) (CurrentDetails, error) {
	raw, err := s.source.FetchCurrent(ctx, loc)
	if err != nil {
		return CurrentDetails{}, fmt.Errorf("fetch current conditions for %s: %w", loc.Query(), err)
	}

	details, err := s.normalizer.NormalizeCurrentDetails(raw)
	if err != nil {
		return CurrentDetails{}, fmt.Errorf("normalize current details for %s: %w", loc.Query(), err)
	}
	return details, nil
}

// PressureSeries returns the forecast's pressure trend for loc.
func (s *Service) PressureSeries(ctx context.Context, loc Location) (PressureSeries, error) {
	raw, err := s.source.FetchForecast(ctx, loc)
	if err != nil {
		return PressureSeries{}, fmt.Errorf("fetch forecast for %s: %w", loc.Query(), err)
	}

	series, err := s.normalizer.NormalizePressureSeries(raw)
	if err != nil {
		return PressureSeries{}, fmt.Errorf("normalize pressure series for %s: %w", loc.Query(), err)
	}
	return series, nil
}

// Daily returns the forecast grouped by calendar day.
func (s *Service) Daily(ctx context.Context, loc Location) ([]DailyAggregate, error) {
	readings, err := s.Forecast(ctx, loc)
	if err != nil {
		return nil, err
	}
	return GroupByDay(readings), nil
}

// Run executes one full pipeline run: current conditions, then the forecast, then the
// per-day summary.
func (s *Service) Run(ctx context.Context, loc Location) (Report, error) {
	runID := uuid.NewString()
	logger := log.WithFields(log.Fields{
		"run_id":   runID,
		"location": loc.Key(),
		"source":   s.source.Name(),
	})
	logger.Debug("pipeline run started")

	current, err := s.Current(ctx, loc)
	if err != nil {
		logger.WithError(err).Warn("pipeline run aborted")
		return Report{}, err
	}

	forecast, err := s.Forecast(ctx, loc)
	if err != nil {
		logger.WithError(err).Warn("pipeline run aborted")
		return Report{}, err
	}

	report := Report{
		RunID:     runID,
		Location:  loc,
		FetchedAt: s.now().In(s.normalizer.Zone()),
		Current:   current,
		Forecast:  forecast,
		Daily:     GroupByDay(forecast),
	}

	logger.WithFields(log.Fields{
		"forecast_points": len(report.Forecast),
		"days":            len(report.Daily),
	}).Info("pipeline run completed")

	return report, nil
}

package weather

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestServiceRun(t *testing.T) {
	src := &fakeSource{
		current:  mustDecodeCurrent(t, parisCurrentJSON),
		forecast: fiveDayForecast(),
	}
	svc := NewService(src, nil)
	svc.now = func() time.Time { return time.Unix(1700000100, 0) }

	report, err := svc.Run(context.Background(), Location{City: "Paris", Country: "FR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.RunID == "" {
		t.Fatalf("expected a run id")
	}
	if report.Current.Condition != "Clear" {
		t.Fatalf("expected current condition Clear, got %q", report.Current.Condition)
	}
	if len(report.Forecast) != 40 {
		t.Fatalf("expected 40 forecast readings, got %d", len(report.Forecast))
	}
	if len(report.Daily) != 5 {
		t.Fatalf("expected 5 days, got %d", len(report.Daily))
	}
	if report.FetchedAt.Unix() != 1700000100 {
		t.Fatalf("unexpected fetched at %s", report.FetchedAt)
	}
}

func TestServiceRunAbortsOnForecastFailure(t *testing.T) {
	forecast := fiveDayForecast()
	forecast.List[0].Weather = nil
	src := &fakeSource{
		current:  mustDecodeCurrent(t, parisCurrentJSON),
		forecast: forecast,
	}

	report, err := NewService(src, nil).Run(context.Background(), Location{City: "Paris"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var missing *MissingFieldError
	if !errors.As(err, &missing) || missing.Field != "weather" {
		t.Fatalf("expected missing weather, got %v", err)
	}
	if report.RunID != "" || len(report.Forecast) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestServiceRunStopsAfterCurrentFailure(t *testing.T) {
	src := &fakeSource{currentErr: ErrLocationNotFound}

	_, err := NewService(src, nil).Run(context.Background(), Location{City: "Atlantis"})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if src.forecastCall != 0 {
		t.Fatalf("expected no forecast fetch, got %d", src.forecastCall)
	}
}

func TestServiceDaily(t *testing.T) {
	src := &fakeSource{forecast: fiveDayForecast()}

	days, err := NewService(src, NewNormalizer()).Daily(context.Background(), Location{City: "Paris"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 5 {
		t.Fatalf("expected 5 days, got %d", len(days))
	}
}

func TestLocationKeyAndQuery(t *testing.T) {
	loc := Location{City: " New York ", Country: "US"}
	if loc.Key() != "new york:us" {
		t.Fatalf("unexpected key %q", loc.Key())
	}
	if loc.Query() != "New York,US" {
		t.Fatalf("unexpected query %q", loc.Query())
	}
	if (Location{City: "Paris"}).Query() != "Paris" {
		t.Fatalf("expected bare city query")
	}
}

func TestServiceCurrentDetailsAndPressure(t *testing.T) {
	forecast := fiveDayForecast()
	p := 1013.0
	forecast.List[0].Main.Pressure = &p
	src := &fakeSource{current: mustDecodeCurrent(t, parisCardJSON), forecast: forecast}
	svc := NewService(src, nil)

	details, err := svc.CurrentDetails(context.Background(), Location{City: "Paris"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.Country != "FR" || details.Sunrise == nil {
		t.Fatalf("unexpected details %+v", details)
	}

	series, err := svc.PressureSeries(context.Background(), Location{City: "Paris"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series.Points) != 1 || series.Points[0].Pressure != 1013 {
		t.Fatalf("unexpected series %+v", series)
	}

	src.currentErr = ErrLocationNotFound
	if _, err := svc.CurrentDetails(context.Background(), Location{City: "Paris"}); !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// defaultInterval applies when no positive refresh interval is configured.
const defaultInterval = 15 * time.Minute

// runTimeout bounds a single location's pipeline run.
const runTimeout = 30 * time.Second

// Runner is the part of weather.Service the scheduler needs.
type Runner interface {
	Run(ctx context.Context, loc weather.Location) (weather.Report, error)
}

// Scheduler periodically refreshes weather data for configured locations, which keeps
// the raw-response cache warm for API callers.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    Runner
	locations []weather.Location
	interval  time.Duration
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval time.Duration, runner Runner) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		runner:    runner,
		locations: locations,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		log.Info("[scheduler] no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(s.every()).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) every() time.Duration {
	if s.interval <= 0 {
		return defaultInterval
	}
	return s.interval
}

// RunOnce refreshes every location, one after another, and returns how many runs
// failed. A failing location does not stop the others.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	log.Debug("[scheduler] running weather refresh job")

	failed := 0
	for _, loc := range s.locations {
		runCtx, cancel := context.WithTimeout(ctx, runTimeout)
		_, err := s.runner.Run(runCtx, loc)
		cancel()

		if err != nil {
			failed++
			log.Errorf("[scheduler] refresh failed for %s: %v", loc.Key(), err)
		}
	}

	log.Debugf("[scheduler] completed weather refresh job (%d/%d failed)", failed, len(s.locations))
	return failed
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

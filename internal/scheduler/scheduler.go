package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/cwa-station-overlay/internal/weather"
)

// Refresher runs one full refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler periodically refreshes all station feeds.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a new Scheduler.
func New(interval time.Duration, refresher Refresher, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	// A slow cycle must never overlap the next one.
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the refresh job, runs it once right away and starts the
// underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.run, interval)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler started", "interval", interval)
	return nil
}

func (s *Scheduler) run(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.refresher.Refresh(ctx)
	switch {
	case errors.Is(err, weather.ErrRefreshInProgress):
		s.logger.Warn("scheduler: previous refresh still running; skipping")
	case err != nil:
		s.logger.Error("scheduler: refresh failed", "error", err)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

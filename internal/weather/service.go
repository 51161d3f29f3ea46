package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/i474232898/cwa-station-overlay/internal/observability"
)

var (
	// ErrRefreshInProgress is returned when a refresh starts while another is running.
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrStationNotFound is returned for an unknown station id.
	ErrStationNotFound = errors.New("station not found")
)

// FeedStatus pairs a pipeline stage with its latest summary, if any.
type FeedStatus struct {
	Name    string       `json:"name"`
	Origin  Origin       `json:"origin"`
	Summary *FeedSummary `json:"summary,omitempty"`
}

// Service runs the refresh pipeline: an ordered list of feeds ingested one after
// another into the registry, driving the marker synchronizer as records merge.
//
// Stage order is a contract. The rainfall feed must run after the two weather
// feeds so that its records merge into stations they already registered.
// Only the pipeline writes to the registry and the marker index.
type Service struct {
	registry Registry
	markers  MarkerSink
	labels   LabelApplier
	stages   []Feed
	logger   *slog.Logger
	metrics  *observability.Metrics

	running atomic.Bool
	ready   atomic.Bool

	mu        sync.RWMutex
	summaries map[string]FeedSummary
}

// NewService creates a Service. stages are executed in the given order.
// labels may be nil when no label controller is attached.
func NewService(registry Registry, markers MarkerSink, labels LabelApplier, stages []Feed, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		registry:  registry,
		markers:   markers,
		labels:    labels,
		stages:    stages,
		logger:    logger,
		metrics:   metrics,
		summaries: make(map[string]FeedSummary),
	}
}

// Refresh runs every stage in order. A failing feed is logged and skipped; its
// previous summary and the markers it produced stay as they were.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.begin() {
		return ErrRefreshInProgress
	}
	defer s.running.Store(false)
	return s.run(ctx)
}

// RefreshAsync claims the pipeline and runs the cycle in the background,
// bounded by timeout. It fails immediately with ErrRefreshInProgress when a
// cycle is already running.
func (s *Service) RefreshAsync(timeout time.Duration) error {
	if !s.begin() {
		return ErrRefreshInProgress
	}
	go func() {
		defer s.running.Store(false)
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := s.run(ctx); err != nil {
			s.logger.Warn("background refresh aborted", "error", err)
		}
	}()
	return nil
}

// Refreshing reports whether a cycle is in flight.
func (s *Service) Refreshing() bool {
	return s.running.Load()
}

func (s *Service) begin() bool {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.RefreshSkipped.Inc()
		return false
	}
	return true
}

func (s *Service) run(ctx context.Context) error {
	start := clock.Now()
	s.logger.Info("refresh started", "stages", len(s.stages))

	failed := 0
	for _, feed := range s.stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.Ingest(ctx, feed); err != nil {
			failed++
		}
	}

	if s.labels != nil {
		s.labels.Reapply()
	}

	s.metrics.RegistryStations.Set(float64(s.registry.Len()))
	s.metrics.Markers.Set(float64(s.markers.Len()))
	s.metrics.RefreshDuration.Observe(clock.Since(start).Seconds())
	s.ready.Store(true)

	s.logger.Info("refresh completed",
		"stations", s.registry.Len(),
		"failed_feeds", failed,
		"duration", clock.Since(start),
	)
	return nil
}

// Ingest fetches one feed and merges every record into the registry. On fetch
// failure nothing is merged and the error is returned after logging.
func (s *Service) Ingest(ctx context.Context, feed Feed) (FeedSummary, error) {
	start := clock.Now()
	name := feed.Name()

	observations, err := feed.Fetch(ctx)
	if err != nil {
		s.metrics.FeedFetches.WithLabelValues(name, "error").Inc()
		s.logger.Error("feed fetch failed; keeping previous data", "feed", name, "error", err)
		return FeedSummary{}, fmt.Errorf("ingest %s: %w", name, err)
	}
	s.metrics.FeedFetches.WithLabelValues(name, "success").Inc()

	fields := feed.Fields()
	trackers := make([]Tracker, len(fields))
	missing := []string{}
	observationTime := ""

	for _, obs := range observations {
		rec := s.registry.Upsert(feed.Origin(), obs)

		incomplete := rec.Position == nil
		for i, f := range fields {
			m, _ := f.From(obs)
			if !m.Valid {
				incomplete = true
			}
			trackers[i].Observe(Sample{Value: m, Station: obs.StationName, Time: obs.ObservedAt})
		}
		if incomplete {
			missing = append(missing, obs.StationName)
		}
		if observationTime == "" && obs.ObservedAt != "" {
			observationTime = obs.ObservedAt
		}

		s.markers.Upsert(rec)
	}

	if observationTime == "" {
		observationTime = NotApplicable
	}

	summary := FeedSummary{
		Feed:            name,
		Origin:          feed.Origin(),
		StationCount:    len(observations),
		Fields:          make([]FieldStats, 0, len(fields)),
		MissingStations: missing,
		ObservationTime: observationTime,
		RefreshedAt:     clock.Now().UTC(),
	}
	for i, f := range fields {
		ex := trackers[i].Result()
		summary.Fields = append(summary.Fields, FieldStats{
			Field: f,
			Max:   withTime(ex.Max, observationTime),
			Min:   withTime(ex.Min, observationTime),
		})
	}

	s.mu.Lock()
	s.summaries[name] = summary
	s.mu.Unlock()

	s.metrics.FeedStations.WithLabelValues(name).Set(float64(len(observations)))
	s.metrics.IngestDuration.WithLabelValues(name).Observe(clock.Since(start).Seconds())
	s.logger.Debug("feed ingested", "feed", name, "stations", len(observations), "missing", len(missing))

	return summary, nil
}

// withTime fills an extreme's empty time with the feed's observation time.
func withTime(e Extreme, fallback string) Extreme {
	if e.Time == "" {
		e.Time = fallback
	}
	return e
}

// Status returns every stage in pipeline order with its latest summary.
func (s *Service) Status() []FeedStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FeedStatus, 0, len(s.stages))
	for _, feed := range s.stages {
		st := FeedStatus{Name: feed.Name(), Origin: feed.Origin()}
		if sum, ok := s.summaries[feed.Name()]; ok {
			st.Summary = &sum
		}
		out = append(out, st)
	}
	return out
}

// Summary returns the latest summary of the named feed.
func (s *Service) Summary(feed string) (FeedSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, ok := s.summaries[feed]
	return sum, ok
}

// GetStation delegates to the registry.
func (s *Service) GetStation(id string) (StationRecord, error) {
	rec, ok := s.registry.Get(id)
	if !ok {
		return StationRecord{}, ErrStationNotFound
	}
	return rec, nil
}

// Stations returns every known station in registry order.
func (s *Service) Stations() []StationRecord {
	return s.registry.All()
}

// CheckReadiness returns nil once at least one refresh cycle has completed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no refresh cycle has completed yet")
	}
	return nil
}

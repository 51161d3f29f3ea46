package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for the refresh pipeline and overlay.
type Metrics struct {
	FeedFetches     *prometheus.CounterVec   // labels: feed, outcome={success,error}
	FeedStations    *prometheus.GaugeVec     // labels: feed
	IngestDuration  *prometheus.HistogramVec // labels: feed
	RefreshDuration prometheus.Histogram
	RefreshSkipped  prometheus.Counter

	RegistryStations prometheus.Gauge
	Markers          prometheus.Gauge
}

// NewMetrics creates all collectors and registers them with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedStations,
		m.IngestDuration,
		m.RefreshDuration,
		m.RefreshSkipped,
		m.RegistryStations,
		m.Markers,
	)
	return m
}

// NewMetricsForTesting creates unregistered collectors so tests can build as
// many as they need without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "station_overlay",
			Name:      "feed_fetches_total",
			Help:      "Feed fetch attempts by feed and outcome.",
		}, []string{"feed", "outcome"}),
		FeedStations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "station_overlay",
			Name:      "feed_stations",
			Help:      "Stations reported by the last successful fetch of each feed.",
		}, []string{"feed"}),
		IngestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "station_overlay",
			Name:      "feed_ingest_duration_seconds",
			Help:      "Duration of one feed ingestion including the upstream call.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"feed"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "station_overlay",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full refresh cycle across all feeds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RefreshSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "station_overlay",
			Name:      "refresh_skipped_total",
			Help:      "Refresh cycles rejected because another cycle was in flight.",
		}),
		RegistryStations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_overlay",
			Name:      "registry_stations",
			Help:      "Stations currently held in the registry.",
		}),
		Markers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "station_overlay",
			Name:      "markers",
			Help:      "Station markers currently on the overlay.",
		}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_map"

// Metrics holds the Prometheus collectors for feed fetching and map assembly.
type Metrics struct {
	// Feed metrics.
	FeedRequests    *prometheus.CounterVec   // labels: source={earthquakes,plates}, outcome={success,feed_error,parse_error}
	FeedDuration    *prometheus.HistogramVec // labels: source
	FeedCache       *prometheus.CounterVec   // labels: source, result={hit,miss}
	FeaturesSkipped prometheus.Counter

	// Map assembly metrics.
	MapBuilds       *prometheus.CounterVec // labels: status={ok,degraded}
	MarkersRendered prometheus.Gauge

	// Background refresh metrics.
	RefreshRuns     *prometheus.CounterVec // labels: outcome={success,error}
	EventsPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedRequests,
		m.FeedDuration,
		m.FeedCache,
		m.FeaturesSkipped,
		m.MapBuilds,
		m.MarkersRendered,
		m.RefreshRuns,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_requests_total",
			Help:      "Outbound feed requests by source and outcome.",
		}, []string{"source", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_request_duration_seconds",
			Help:      "Outbound feed request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		FeedCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_cache_total",
			Help:      "Feed cache lookups by source and result.",
		}, []string{"source", "result"}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_skipped_total",
			Help:      "Feed features dropped for missing point coordinates.",
		}),
		MapBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "map_builds_total",
			Help:      "Map assemblies by status.",
		}, []string{"status"}),
		MarkersRendered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "markers_rendered",
			Help:      "Number of earthquake markers in the most recent map.",
		}),
		RefreshRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_runs_total",
			Help:      "Scheduled feed refreshes by outcome.",
		}, []string{"outcome"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Earthquake events published to Kafka.",
		}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus gauges, counters, and histograms for the
// dashboard service.
type Metrics struct {
	// Dataset metrics, set once after the startup load.
	DatasetRows           prometheus.Gauge
	DatasetDroppedBadTime prometheus.Gauge
	DatasetDroppedWeather prometheus.Gauge

	// Request metrics.
	PageRenders    prometheus.Counter
	APIRequests    *prometheus.CounterVec // label: endpoint
	RenderDuration prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_insights",
			Name:      "dataset_rows",
			Help:      "Crash records in the loaded working set.",
		}),
		DatasetDroppedBadTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_insights",
			Name:      "dataset_dropped_bad_time",
			Help:      "Rows dropped at load for an unparsable timestamp.",
		}),
		DatasetDroppedWeather: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crash_insights",
			Name:      "dataset_dropped_wind_other",
			Help:      "Rows dropped at load for WIND or OTHER weather.",
		}),
		PageRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crash_insights",
			Name:      "page_renders_total",
			Help:      "Dashboard page renders.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crash_insights",
			Name:      "api_requests_total",
			Help:      "JSON API requests by endpoint.",
		}, []string{"endpoint"}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crash_insights",
			Name:      "render_duration_seconds",
			Help:      "Time to aggregate and render one dashboard page.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}

	prometheus.MustRegister(
		m.DatasetRows,
		m.DatasetDroppedBadTime,
		m.DatasetDroppedWeather,
		m.PageRenders,
		m.APIRequests,
		m.RenderDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetRows:           prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_insights", Name: "dataset_rows"}),
		DatasetDroppedBadTime: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_insights", Name: "dataset_dropped_bad_time"}),
		DatasetDroppedWeather: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crash_insights", Name: "dataset_dropped_wind_other"}),
		PageRenders:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crash_insights", Name: "page_renders_total"}),
		APIRequests:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crash_insights", Name: "api_requests_total"}, []string{"endpoint"}),
		RenderDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "crash_insights", Name: "render_duration_seconds"}),
	}
}

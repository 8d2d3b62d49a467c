package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "quake_trends"

// Metrics holds the Prometheus collectors for fetching, aggregating and
// rendering earthquake data.
type Metrics struct {
	// Fetch metrics.
	FetchRequests *prometheus.CounterVec // labels: outcome={success,error}
	FetchDuration prometheus.Histogram
	QuakesFetched prometheus.Counter

	// Aggregation metrics.
	MagnitudesMissing prometheus.Counter
	YearsAggregated   prometheus.Gauge
	ReportLoaded      prometheus.Gauge

	// Output metrics.
	ChartsRendered     *prometheus.CounterVec // labels: chart={counts_per_year,average_magnitude_per_year}, format={png,svg}
	RenderErrors       prometheus.Counter
	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.QuakesFetched,
		m.MagnitudesMissing,
		m.YearsAggregated,
		m.ReportLoaded,
		m.ChartsRendered,
		m.RenderErrors,
		m.SummariesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "USGS event query requests by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "USGS event query duration, including body decoding.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		QuakesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quakes_fetched_total",
			Help:      "Total earthquake events decoded from USGS responses.",
		}),
		MagnitudesMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "magnitudes_missing_total",
			Help:      "Events skipped from magnitude averages because mag was null.",
		}),
		YearsAggregated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "years_aggregated",
			Help:      "Number of distinct years in the latest report.",
		}),
		ReportLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "report_loaded",
			Help:      "1 once a report has been built, 0 before.",
		}),
		ChartsRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_rendered_total",
			Help:      "Charts rendered by chart and image format.",
		}, []string{"chart", "format"}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Total chart rendering failures.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_published_total",
			Help:      "Yearly summary messages written to Kafka.",
		}),
	}
}

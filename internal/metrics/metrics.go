package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	FetchesTotal    *prometheus.CounterVec
	RecordsTotal    prometheus.Counter
	NullFilledTotal prometheus.Counter
	UnresolvedTotal *prometheus.CounterVec
	SavedRowsTotal  prometheus.Counter
	CacheHitsTotal  prometheus.Counter
	SyncRunsTotal   *prometheus.CounterVec
}

// NewMetrics registers collectors on reg; pass prometheus.DefaultRegisterer in production
// and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evds_fetches_total",
				Help: "Total number of EVDS API requests by outcome",
			},
			[]string{"outcome"},
		),

		RecordsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "evds_normalized_records_total",
				Help: "Total number of rate records produced by normalization",
			},
		),

		NullFilledTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "evds_null_filled_records_total",
				Help: "Total number of rate records whose value was filled in",
			},
		),

		UnresolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evds_unresolved_gaps_total",
				Help: "Total number of missing values that could not be filled, by strategy",
			},
			[]string{"strategy"},
		),

		SavedRowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "evds_saved_rows_total",
				Help: "Total number of rate rows inserted or updated",
			},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "evds_result_cache_hits_total",
				Help: "Total number of live rate queries served from cache",
			},
		),

		SyncRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evds_sync_currency_runs_total",
				Help: "Total number of scheduled per-currency syncs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

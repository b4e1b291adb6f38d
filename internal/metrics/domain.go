package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and sync metric label values.
const (
	CacheHit  = "hit"
	CacheMiss = "miss"

	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// SearchesTotal counts search executions by cache outcome.
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "searches_total",
			Help:      "Total number of property searches by cache outcome",
		},
		[]string{"cache"},
	)

	// SyncJobsTotal counts incremental sync jobs by operation and outcome.
	SyncJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "sync_jobs_total",
			Help:      "Total number of incremental sync jobs by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	// ResyncDuration observes full resync duration.
	ResyncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "propsearch",
			Name:      "resync_duration_seconds",
			Help:      "Full index resync duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
	)

	// CacheInvalidationsTotal counts full cache flushes.
	CacheInvalidationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "propsearch",
			Name:      "cache_invalidations_total",
			Help:      "Total number of full query-cache invalidations",
		},
	)
)

// RegisterDomainMetrics registers search and sync metrics explicitly (no init()).
func RegisterDomainMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SyncJobsTotal)
	prometheus.MustRegister(ResyncDuration)
	prometheus.MustRegister(CacheInvalidationsTotal)
}

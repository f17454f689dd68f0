package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appdex",
			Name:      "search_requests_total",
			Help:      "Total number of searches",
		},
		[]string{"sort", "status"}, // status: "ok" / "error" / "canceled"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "appdex",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"sort"},
	)

	SearchSubqueryErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appdex",
			Name:      "search_subquery_errors_total",
			Help:      "Sub-queries that failed and were treated as empty",
		},
		[]string{"stage"}, // "estimate" / "window" / "reviews"
	)

	SearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "appdex",
			Name:      "search_fallbacks_total",
			Help:      "Searches retried with non-applications visible after an empty result",
		},
	)

	ReviewLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appdex",
			Name:      "review_lookups_total",
			Help:      "Review statistics lookups by outcome",
		},
		[]string{"result"}, // "hit" / "miss" / "invalid"
	)

	PackageCacheEntries = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "appdex",
			Name:      "package_cache_entries",
			Help:      "Packages held by the package cache",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchSubqueryErrorsTotal)
	prometheus.MustRegister(SearchFallbacksTotal)
	prometheus.MustRegister(ReviewLookupsTotal)
	prometheus.MustRegister(PackageCacheEntries)
	searchMetricsRegistered = true
}

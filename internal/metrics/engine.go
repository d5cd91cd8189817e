package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SearchResultsTotal = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "search_results_count",
			Help:      "Result count per search call",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
	)

	RecommendationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "discovery",
			Name:      "recommendation_duration_seconds",
			Help:      "End-to-end recommendation call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"context"},
	)

	StrategyErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "recommendation_strategy_errors_total",
			Help:      "Recommendation bucket failures, degraded per strategy",
		},
		[]string{"strategy"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "discovery",
			Name:      "cache_total",
			Help:      "Engine cache hits and misses",
		},
		[]string{"cache", "result"}, // cache: "results"/"profiles"; result: "hit"/"miss"
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers Prometheus engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(RecommendationDuration)
	prometheus.MustRegister(StrategyErrorsTotal)
	prometheus.MustRegister(CacheTotal)
	engineMetricsRegistered = true
}

// ResultCacheCounter returns the counter vec for the search result cache,
// curried to the "result" label ("hit"/"miss").
func ResultCacheCounter() *prometheus.CounterVec {
	return CacheTotal.MustCurryWith(prometheus.Labels{"cache": "results"})
}

// ProfileCacheCounter returns the counter vec for the user profile cache.
func ProfileCacheCounter() *prometheus.CounterVec {
	return CacheTotal.MustCurryWith(prometheus.Labels{"cache": "profiles"})
}

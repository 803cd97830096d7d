package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Planner metrics
	PlanRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_plan_requests_total",
			Help: "Total number of route planning requests",
		},
		[]string{"path_type", "status"},
	)

	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dbx_plan_duration_seconds",
		Help:    "Route planning duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	CandidatesEvaluated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dbx_plan_candidates_evaluated",
		Help:    "Number of candidate routes built per planning request",
		Buckets: []float64{1, 2, 3, 5, 8, 12, 20},
	})

	CandidatesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_plan_candidates_dropped_total",
			Help: "Candidate routes dropped during planning",
		},
		[]string{"reason"},
	)

	RouteSlippagePct = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbx_route_slippage_pct",
			Help:    "Cumulative route slippage as a fraction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2},
		},
		[]string{"severity"},
	)

	// Oracle metrics
	OracleQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_oracle_queries_total",
			Help: "Total number of oracle queries",
		},
		[]string{"kind", "status"},
	)

	OracleQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbx_oracle_query_duration_seconds",
			Help:    "Oracle query duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_provider_attempts_total",
			Help: "Provider attempts by outcome (answered, null, error, timeout, unsupported)",
		},
		[]string{"provider", "outcome"},
	)

	FallbackDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dbx_oracle_fallback_depth",
		Help:    "Number of providers attempted before a query resolved",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	// Price cache metrics
	PriceCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbx_price_cache_hits_total",
		Help: "Total number of price cache hits",
	})

	PriceCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dbx_price_cache_misses_total",
		Help: "Total number of price cache misses",
	})

	PriceCacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dbx_price_cache_size",
		Help: "Current number of entries in the price cache",
	})

	// Document reload metrics
	DocumentReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_document_reloads_total",
			Help: "Config document reloads by status",
		},
		[]string{"status"},
	)

	// HTTP metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dbx_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dbx_http_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by layer.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaios_cache_hits_total",
			Help: "Total number of upstream cache hits",
		},
		[]string{"layer"},
	)

	// CacheMisses tracks cache misses.
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaios_cache_misses_total",
			Help: "Total number of upstream cache misses",
		},
	)

	// CacheSize tracks bytes written to the cache by layer.
	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kaios_cache_size_bytes",
			Help: "Bytes written to the upstream cache",
		},
		[]string{"layer"},
	)

	// NotModifiedResponses tracks 304 Not Modified responses.
	NotModifiedResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaios_304_responses_total",
			Help: "Total number of upstream 304 Not Modified responses",
		},
	)

	// ConditionalRequestsSent tracks requests sent with validators.
	ConditionalRequestsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kaios_conditional_requests_total",
			Help: "Total number of conditional requests sent upstream",
		},
	)

	// CacheErrors tracks cache operation errors.
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kaios_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)

package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	rawgRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaios_rawg_requests_total",
		Help: "Total RAWG requests by endpoint and status",
	}, []string{"endpoint", "status"})

	rawgRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kaios_rawg_request_duration_seconds",
		Help:    "RAWG request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	rawgErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaios_rawg_errors_total",
		Help: "Total RAWG errors by class",
	}, []string{"class"})

	rawgRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaios_rawg_retries_total",
		Help: "Total number of retry attempts by error class",
	}, []string{"error_class"})

	rawgRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kaios_rawg_retry_backoff_seconds",
		Help:    "Backoff duration for retries by error class",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
	}, []string{"error_class"})

	rawgRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaios_rawg_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error class",
	}, []string{"error_class"})
)

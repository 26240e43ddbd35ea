package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch cycle outcomes.
const (
	outcomeSuccess   = "success"
	outcomeExhausted = "exhausted"
	outcomeError     = "error"
	outcomeCancelled = "cancelled"
)

var (
	fetchCyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kaios_feed_fetch_cycles_total",
		Help: "Completed feed fetch cycles by outcome",
	}, []string{"outcome"})

	staleResultsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaios_feed_stale_results_total",
		Help: "Fetch results discarded because a newer cycle superseded them",
	})
)

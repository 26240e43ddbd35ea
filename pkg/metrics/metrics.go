// Package metrics provides the Prometheus registry used across the module.
// Metrics are defined next to the code that updates them (client, cache,
// ratelimit, feed, proxy) and registered through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics are registered
// via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the registry the proxy serves on /metrics.
var Gatherer = prometheus.DefaultGatherer

// Namespace prefixes every metric name exported by this module.
const Namespace = "kaios"

// Metrics Documentation
//
// Feed Metrics (pkg/feed):
//   - kaios_feed_fetch_cycles_total{outcome} (Counter): fetch cycles by outcome
//     (items, exhausted, error, cancelled)
//   - kaios_feed_stale_results_total (Counter): results discarded because a newer
//     generation or request superseded them
//
// Upstream Metrics (pkg/client):
//   - kaios_rawg_requests_total{endpoint, status} (Counter)
//   - kaios_rawg_request_duration_seconds{endpoint} (Histogram)
//   - kaios_rawg_errors_total{class} (Counter)
//   - kaios_rawg_retries_total{error_class} (Counter)
//   - kaios_rawg_retry_exhausted_total{error_class} (Counter)
//
// Quota Metrics (pkg/ratelimit):
//   - kaios_quota_remaining (Gauge)
//   - kaios_quota_blocks_total (Counter)
//   - kaios_quota_throttles_total (Counter)
//
// Cache Metrics (pkg/cache):
//   - kaios_cache_hits_total{layer="redis"} (Counter)
//   - kaios_cache_misses_total (Counter)
//   - kaios_cache_size_bytes{layer="redis"} (Gauge)
//   - kaios_304_responses_total (Counter)
//   - kaios_conditional_requests_total (Counter)
//   - kaios_cache_errors_total{operation} (Counter)
//
// Proxy Metrics (cmd/kaios-proxy):
//   - kaios_proxy_requests_total{route, status} (Counter)
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(kaios_cache_hits_total[5m])) /
//   (sum(rate(kaios_cache_hits_total[5m])) + sum(rate(kaios_cache_misses_total[5m])))
//
//   # Grid failures surfaced to users
//   rate(kaios_feed_fetch_cycles_total{outcome="error"}[5m])
//
//   # P95 upstream latency
//   histogram_quantile(0.95, rate(kaios_rawg_request_duration_seconds_bucket[5m]))

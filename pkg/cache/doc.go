// Package cache provides upstream response caching with a Redis backend.
//
// The cache manager is shared by the RAWG client and the Play Store proxy:
//
// - Honours the upstream Expires header, falling back to DefaultTTL
// - ETag support for conditional requests (If-None-Match)
// - Last-Modified support (If-Modified-Since)
// - Deterministic, namespaced cache keys; long keys (free-text searches)
//   are compacted to a BLAKE3 digest
// - Prometheus metrics for observability
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient)
//
//	key := cache.CacheKey{
//		Namespace:   "rawg",
//		Endpoint:    "/games",
//		QueryParams: url.Values{"page": []string{"1"}, "search": []string{"zelda"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch upstream, then manager.Set(ctx, key, entry)
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Conditional Requests
//
//	if cache.ShouldMakeConditionalRequest(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Metrics
//
//   - kaios_cache_hits_total{layer="redis"}
//   - kaios_cache_misses_total
//   - kaios_cache_size_bytes{layer="redis"}
//   - kaios_304_responses_total
//   - kaios_conditional_requests_total
//   - kaios_cache_errors_total{operation}
package cache

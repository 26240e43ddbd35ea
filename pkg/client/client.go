// Package client provides the RAWG HTTP client: the production catalog data
// source, with local rate limiting, a shared quota gate, Redis response
// caching, conditional requests and retry with backoff.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/cache"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/catalog"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/logging"
	"github.com/murilosilvadacosta6ano-creator/KIRA-AI-Store/pkg/ratelimit"
)

// DefaultBaseURL is the public RAWG API root.
const DefaultBaseURL = "https://api.rawg.io/api"

// CacheNamespace prefixes every RAWG cache key.
const CacheNamespace = "rawg"

// Client is the RAWG client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	tracker    *ratelimit.Tracker
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for caching and shared quota state. Optional: nil
	// disables both.
	Redis *redis.Client

	// APIKey is the RAWG key, sent as the "key" query parameter (REQUIRED).
	APIKey string

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// User-Agent header (REQUIRED).
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Local token bucket.
	RateLimit float64 // Requests per second
	Burst     int

	// Catalog query defaults.
	PageSize int
	Ordering string
	Dates    string

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration

	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redisClient *redis.Client, apiKey, userAgent string) Config {
	return Config{
		Redis:          redisClient,
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		UserAgent:      userAgent,
		RateLimit:      5,
		Burst:          5,
		PageSize:       catalog.PageSize,
		Ordering:       "-metacritic",
		Dates:          "2020-01-01,2025-12-31",
		MaxRetries:     3,
		InitialBackoff: 500 * time.Millisecond,
		Timeout:        15 * time.Second,
	}
}

// New creates a new RAWG client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.PageSize < 1 || cfg.PageSize > 40 {
		return nil, fmt.Errorf("page_size must be between 1 and 40 (got %d)", cfg.PageSize)
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("max_retries must be >= 1 (got %d)", cfg.MaxRetries)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	logger := logging.NewLogger("rawg-client")

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		config:     cfg,
		logger:     logger,
	}
	if cfg.Redis != nil {
		c.tracker = ratelimit.NewTracker(cfg.Redis, logger)
		c.cache = cache.NewManager(cfg.Redis)
	}

	return c, nil
}

// Do performs an HTTP request with rate limiting, caching and retries.
//
// A fresh cache hit is served without touching the network unless the
// request carries "Cache-Control: no-cache", in which case the entry is
// revalidated with a conditional request. Client errors (4xx) are returned
// as responses for the caller to inspect; retry exhaustion and transport
// failures are returned as errors.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		rawgRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: local token bucket
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, contextError(ctx)
		}
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// Step 2: shared quota gate
	if c.tracker != nil {
		allowed, err := c.tracker.ShouldAllowRequest(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, contextError(ctx)
			}
			c.logger.Error().Err(err).Msg("Quota check failed")
			return nil, fmt.Errorf("quota check: %w", err)
		}
		if !allowed {
			c.logger.Warn().Str("endpoint", endpoint).Msg("Request blocked by quota tracker")
			rawgRequestsTotal.WithLabelValues(endpoint, "quota_blocked").Inc()
			return nil, ErrQuotaExhausted
		}
	}

	// Step 3: cache lookup
	cacheKey := c.cacheKey(req)
	var cachedEntry *cache.CacheEntry
	if c.cache != nil {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		cachedEntry = entry
	}

	if cachedEntry != nil && req.Header.Get("Cache-Control") != "no-cache" {
		rawgRequestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
		return cache.EntryToResponse(cachedEntry), nil
	}

	// Step 4: conditional request
	if cachedEntry != nil && cache.ShouldMakeConditionalRequest(cachedEntry) {
		cache.AddConditionalHeaders(req, cachedEntry)
		cache.ConditionalRequestsSent.Inc()
		c.logger.Debug().
			Str("endpoint", endpoint).
			Str("etag", cachedEntry.ETag).
			Msg("Making conditional request")
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing RAWG request")

	// Step 5: execute with retry
	var resp *http.Response
	retryErr := retryWithBackoff(ctx, c.retryConfig(), c.logger, func() (ErrorClass, error) {
		var reqErr error
		resp, reqErr = c.httpClient.Do(req)
		if reqErr != nil {
			if ctx.Err() != nil {
				return "", reqErr
			}
			c.logger.Warn().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			rawgErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			rawgRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return ErrorClassNetwork, reqErr
		}

		if c.tracker != nil {
			if err := c.tracker.UpdateFromHeaders(ctx, resp.Header); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to update quota from headers")
			}
		}

		class := classifyStatus(resp.StatusCode)
		if class == "" {
			return "", nil
		}

		rawgErrorsTotal.WithLabelValues(string(class)).Inc()
		rawgRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("RAWG request error")

		if !shouldRetry(class) {
			// Handed back to the caller as a response.
			return "", nil
		}

		resp.Body.Close()
		return class, &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
		}
	})
	if retryErr != nil {
		return nil, retryErr
	}

	// Step 6: 304 Not Modified
	if resp.StatusCode == http.StatusNotModified && cachedEntry != nil {
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using cache")
		rawgRequestsTotal.WithLabelValues(endpoint, "304").Inc()
		cache.NotModifiedResponses.Inc()

		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := c.cache.UpdateTTL(ctx, cacheKey, newExpires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}

		resp.Body.Close()
		return cache.EntryToResponse(cachedEntry), nil
	}

	if resp.StatusCode < 400 {
		rawgRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
	}

	// Step 7: cache successful responses
	if resp.StatusCode == http.StatusOK && c.cache != nil {
		entry, err := cache.ResponseToEntry(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("ttl", entry.TTL()).
				Msg("Cached response")
		}
	}

	return resp, nil
}

// cacheKey builds the cache key for req. The API key never reaches Redis.
func (c *Client) cacheKey(req *http.Request) cache.CacheKey {
	query := req.URL.Query()
	query.Del("key")
	return cache.CacheKey{
		Namespace:   CacheNamespace,
		Endpoint:    req.URL.Path,
		QueryParams: query,
	}
}

func (c *Client) retryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	cfg.MaxAttempts = c.config.MaxRetries
	if c.config.InitialBackoff > 0 {
		cfg.InitialBackoff = c.config.InitialBackoff
	}
	return cfg
}

// Close releases idle connections. The Redis client belongs to the caller.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the cache manager, or nil when caching is disabled.
func (c *Client) Cache() *cache.Manager {
	return c.cache
}

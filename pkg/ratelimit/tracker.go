package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Header names carrying the quota.
const (
	HeaderRemaining = "X-RateLimit-Remaining"
	HeaderReset     = "X-RateLimit-Reset"
)

var (
	quotaRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kaios_quota_remaining",
		Help: "Requests remaining in the current upstream quota window",
	})

	quotaBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaios_quota_blocks_total",
		Help: "Total number of requests blocked because the quota is critical",
	})

	quotaThrottlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kaios_quota_throttles_total",
		Help: "Total number of requests throttled because the quota is low",
	})
)

// Tracker monitors the upstream quota and gates requests.
type Tracker struct {
	redis    *redis.Client
	logger   zerolog.Logger
	throttle time.Duration
}

// NewTracker creates a new quota tracker.
func NewTracker(redisClient *redis.Client, logger zerolog.Logger) *Tracker {
	return &Tracker{
		redis:    redisClient,
		logger:   logger,
		throttle: ThrottleDelay,
	}
}

// GetState retrieves the current quota state from Redis.
// Returns a default healthy state if nothing has been recorded yet.
func (t *Tracker) GetState(ctx context.Context) (*RateLimitState, error) {
	remaining, err := t.redis.Get(ctx, RedisKeyRemaining).Int()
	if errors.Is(err, redis.Nil) {
		t.logger.Debug().Msg("No quota state in Redis, assuming healthy")
		return &RateLimitState{
			Remaining:  100,
			ResetAt:    time.Now().Add(60 * time.Second),
			LastUpdate: time.Now(),
			IsHealthy:  true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get remaining: %w", err)
	}

	resetTimestamp, err := t.redis.Get(ctx, RedisKeyResetTimestamp).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get reset timestamp: %w", err)
	}

	var lastUpdate time.Time
	lastUpdateStr, err := t.redis.Get(ctx, RedisKeyLastUpdate).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get last update: %w", err)
	}
	if lastUpdateStr != "" {
		if err := json.Unmarshal([]byte(lastUpdateStr), &lastUpdate); err != nil {
			return nil, fmt.Errorf("parse last update: %w", err)
		}
	}

	state := &RateLimitState{
		Remaining:  remaining,
		ResetAt:    time.Unix(resetTimestamp, 0),
		LastUpdate: lastUpdate,
	}
	state.UpdateHealth()

	return state, nil
}

// UpdateFromHeaders parses the quota headers and stores the state in Redis.
// Responses without quota headers are ignored.
func (t *Tracker) UpdateFromHeaders(ctx context.Context, headers http.Header) error {
	remainStr := headers.Get(HeaderRemaining)
	if remainStr == "" {
		return nil
	}

	remain, err := strconv.Atoi(remainStr)
	if err != nil {
		return fmt.Errorf("parse %s header: %w", HeaderRemaining, err)
	}

	resetSeconds := 60
	if resetStr := headers.Get(HeaderReset); resetStr != "" {
		resetSeconds, err = strconv.Atoi(resetStr)
		if err != nil {
			return fmt.Errorf("parse %s header: %w", HeaderReset, err)
		}
	}

	now := time.Now()
	state := &RateLimitState{
		Remaining:  remain,
		ResetAt:    now.Add(time.Duration(resetSeconds) * time.Second),
		LastUpdate: now,
	}
	state.UpdateHealth()

	lastUpdateJSON, err := json.Marshal(state.LastUpdate)
	if err != nil {
		return fmt.Errorf("marshal last update: %w", err)
	}

	pipe := t.redis.Pipeline()
	pipe.Set(ctx, RedisKeyRemaining, remain, 0)
	pipe.Set(ctx, RedisKeyResetTimestamp, state.ResetAt.Unix(), 0)
	pipe.Set(ctx, RedisKeyLastUpdate, lastUpdateJSON, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store quota state in redis: %w", err)
	}

	quotaRemaining.Set(float64(remain))

	switch {
	case state.NeedsCriticalBlock():
		t.logger.Error().Int("remaining", remain).Time("reset_at", state.ResetAt).
			Msg("Quota CRITICAL - requests will be blocked")
	case state.NeedsThrottling():
		t.logger.Warn().Int("remaining", remain).Time("reset_at", state.ResetAt).
			Msg("Quota WARNING - requests will be throttled")
	default:
		t.logger.Debug().Int("remaining", remain).Bool("is_healthy", state.IsHealthy).
			Msg("Quota state updated")
	}

	return nil
}

// ShouldAllowRequest reports whether a request may be sent. It returns
// false below the critical threshold and pauses in the warning band. The
// pause ends early with ctx.Err() when ctx is done.
func (t *Tracker) ShouldAllowRequest(ctx context.Context) (bool, error) {
	state, err := t.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("get quota state: %w", err)
	}

	if state.NeedsCriticalBlock() {
		t.logger.Error().
			Int("remaining", state.Remaining).
			Dur("wait_duration", state.TimeUntilReset()).
			Msg("Quota critical - blocking request")
		quotaBlocksTotal.Inc()
		return false, nil
	}

	if state.NeedsThrottling() {
		t.logger.Warn().
			Int("remaining", state.Remaining).
			Msg("Quota low - throttling request")
		quotaThrottlesTotal.Inc()

		timer := time.NewTimer(t.throttle)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-timer.C:
		}
	}

	return true, nil
}

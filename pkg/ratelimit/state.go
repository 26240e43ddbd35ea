// Package ratelimit tracks the upstream request quota and gates requests.
// It reads the X-RateLimit-Remaining and X-RateLimit-Reset headers so every
// process sharing the same Redis stops before the key is locked out.
package ratelimit

import (
	"time"
)

// Redis keys for quota state storage.
const (
	RedisKeyRemaining      = "kaios:quota:remaining"
	RedisKeyResetTimestamp = "kaios:quota:reset_timestamp"
	RedisKeyLastUpdate     = "kaios:quota:last_update"
)

// Thresholds for quota decisions.
const (
	// ThresholdCritical blocks all requests when remaining quota falls below this value.
	ThresholdCritical = 5

	// ThresholdWarning throttles requests when remaining quota falls below this value.
	ThresholdWarning = 20

	// ThresholdHealthy marks normal operation.
	ThresholdHealthy = 50
)

// ThrottleDelay is the pause applied to each request in the warning band.
const ThrottleDelay = 1 * time.Second

// RateLimitState is the shared quota state.
type RateLimitState struct {
	// Remaining is the number of requests left in the current window.
	// Extracted from the X-RateLimit-Remaining header.
	Remaining int `json:"remaining"`

	// ResetAt is when the window resets (X-RateLimit-Reset, seconds).
	ResetAt time.Time `json:"reset_at"`

	LastUpdate time.Time `json:"last_update"`

	// IsHealthy is true when Remaining >= ThresholdHealthy.
	IsHealthy bool `json:"is_healthy"`
}

// IsStale returns true if the state data is older than the given duration.
func (s *RateLimitState) IsStale(maxAge time.Duration) bool {
	return time.Since(s.LastUpdate) > maxAge
}

// NeedsCriticalBlock returns true if requests should be blocked.
func (s *RateLimitState) NeedsCriticalBlock() bool {
	return s.Remaining < ThresholdCritical
}

// NeedsThrottling returns true in the warning band above critical.
func (s *RateLimitState) NeedsThrottling() bool {
	return s.Remaining < ThresholdWarning && !s.NeedsCriticalBlock()
}

// TimeUntilReset returns the duration until the window resets.
// Returns 0 if the reset time has already passed.
func (s *RateLimitState) TimeUntilReset() time.Duration {
	duration := time.Until(s.ResetAt)
	if duration < 0 {
		return 0
	}
	return duration
}

// UpdateHealth updates the IsHealthy field based on Remaining.
func (s *RateLimitState) UpdateHealth() {
	s.IsHealthy = s.Remaining >= ThresholdHealthy
}

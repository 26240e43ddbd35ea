package client

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// RetryConfig holds the configuration for retry logic.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including the initial request).
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// BackoffMultiplier is the multiplier for exponential backoff.
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryConfigForErrorClass scales base for an error class. Rate limiting
// waits longest, network errors a little longer than server errors.
func RetryConfigForErrorClass(errorClass ErrorClass, base RetryConfig) RetryConfig {
	cfg := base
	switch errorClass {
	case ErrorClassRateLimit:
		cfg.InitialBackoff = 5 * base.InitialBackoff
		cfg.MaxBackoff = 2 * base.MaxBackoff
	case ErrorClassNetwork:
		cfg.InitialBackoff = 2 * base.InitialBackoff
	}
	return cfg
}

// attemptFunc performs one attempt and classifies its failure.
type attemptFunc func() (ErrorClass, error)

// retryWithBackoff runs fn until it succeeds, fails with a non-retryable
// class, the context ends or base.MaxAttempts is reached. Backoff grows
// exponentially with ±20% jitter.
func retryWithBackoff(ctx context.Context, base RetryConfig, logger zerolog.Logger, fn attemptFunc) error {
	var (
		lastErr   error
		lastClass ErrorClass
		backoff   time.Duration
	)

	for attempt := 1; attempt <= base.MaxAttempts; attempt++ {
		class, err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Str("error_class", string(lastClass)).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		if ctx.Err() != nil {
			return contextError(ctx)
		}

		lastErr = err
		if !shouldRetry(class) {
			return err
		}

		cfg := RetryConfigForErrorClass(class, base)
		if class != lastClass || backoff == 0 {
			backoff = cfg.InitialBackoff
		}
		lastClass = class

		if attempt >= base.MaxAttempts {
			break
		}

		rawgRetriesTotal.WithLabelValues(string(class)).Inc()

		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		rawgRetryBackoffSeconds.WithLabelValues(string(class)).Observe(jitter.Seconds())

		logger.Debug().
			Str("error_class", string(class)).
			Int("attempt", attempt).
			Dur("backoff", jitter).
			Msg("Retrying request after backoff")

		timer := time.NewTimer(jitter)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Debug().
				Str("error_class", string(class)).
				Int("attempt", attempt).
				Msg("Context done during retry backoff")
			return contextError(ctx)
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * cfg.BackoffMultiplier)
		if backoff > cfg.MaxBackoff {
			backoff = cfg.MaxBackoff
		}
	}

	rawgRetryExhaustedTotal.WithLabelValues(string(lastClass)).Inc()
	logger.Warn().
		Str("error_class", string(lastClass)).
		Int("max_attempts", base.MaxAttempts).
		Msg("Retry attempts exhausted")

	return fmt.Errorf("%w after %d attempts: %w", ErrRetryExhausted, base.MaxAttempts, lastErr)
}

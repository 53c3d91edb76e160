package streaming

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// RetryConfig configures retries of a source's Next.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffFactor   float64
	RetryableErrors func(error) bool // Determines if an error should trigger retry
}

// DefaultRetryConfig returns a default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: func(_ error) bool {
			return true
		},
	}
}

type retrySource struct {
	src    Source
	config *RetryConfig
}

// Retry wraps src so that failing Next calls are retried with exponential
// backoff. ErrExhausted and context errors are never retried.
func Retry(src Source, config *RetryConfig) Source {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &retrySource{src: src, config: config}
}

func (r *retrySource) HasNext() bool { return r.src.HasNext() }

func (r *retrySource) Next(ctx context.Context) (any, error) {
	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v, err := r.src.Next(ctx)
		if err == nil {
			return v, nil
		}
		if errors.Is(err, ErrExhausted) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		lastErr = err
		if r.config.RetryableErrors != nil && !r.config.RetryableErrors(err) {
			return nil, fmt.Errorf("non-retryable source error: %w", err)
		}

		if attempt < r.config.MaxAttempts {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
				delay = min(time.Duration(float64(delay)*r.config.BackoffFactor), r.config.MaxDelay)
			case <-ctx.Done():
				t.Stop()
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", r.config.MaxAttempts, lastErr)
}

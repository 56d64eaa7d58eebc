// Package retry runs an operation with capped exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes how often and how fast an operation is retried.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration
	// Multiplier grows the delay after every retry.
	Multiplier float64
	// MaxInterval caps a single delay.
	MaxInterval time.Duration
}

// DefaultPolicy is 3 retries starting at 1s and doubling up to 8s.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries:      3,
		InitialInterval: time.Second,
		Multiplier:      2,
		MaxInterval:     8 * time.Second,
	}
}

// Notify is called before every retry with the error that triggered it and the wait.
type Notify func(attempt int, err error, wait time.Duration)

// Permanent marks err as not retryable. Do returns the wrapped error as is.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls fn until it succeeds, returns a permanent error, the retries are
// exhausted or ctx is done. The last error is returned.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error, notify Notify) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = policy.InitialInterval
	b.Multiplier = policy.Multiplier
	b.MaxInterval = policy.MaxInterval
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	if b.Multiplier < 1 {
		b.Multiplier = 1
	}
	if b.MaxInterval < b.InitialInterval {
		b.MaxInterval = b.InitialInterval
	}
	b.Reset()

	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	attempt := 0
	operation := func() error {
		attempt++
		return fn(ctx)
	}

	return backoff.RetryNotify(
		operation,
		backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx),
		func(err error, wait time.Duration) {
			if notify != nil {
				notify(attempt, err, wait)
			}
		},
	)
}

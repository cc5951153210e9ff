package hfbatch

import (
	"context"
	"time"
)

// RetryPolicy encapsulates the exponential-backoff retry decisions for a
// single download target. Attempt numbers are 1-based and count retries:
// attempt 1 is the first retry, i.e. the second overall try.
type RetryPolicy struct {
	// MaxRetries is the number of retries allowed after the first attempt.
	MaxRetries int

	// BaseBackoff is the delay before the first retry. Each subsequent
	// retry doubles it.
	BaseBackoff time.Duration
}

// DefaultRetryPolicy returns the policy used when none is configured.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  DefaultMaxRetries,
		BaseBackoff: DefaultBaseBackoff,
	}
}

// ShouldRetry reports whether retry number attempt is allowed. Retries
// stop once attempt exceeds MaxRetries; the final failure is surfaced,
// not retried further.
func (p RetryPolicy) ShouldRetry(attempt int) bool {
	return attempt <= p.MaxRetries
}

// Delay returns the backoff before retry number attempt:
//
//	BaseBackoff * 2^(attempt-1)
//
// The sequence is strictly non-decreasing in attempt. No jitter is applied.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseBackoff << uint(attempt-1)
}

// Wait blocks for Delay(attempt) or until ctx is cancelled, whichever
// comes first. A timer is used rather than time.Sleep so an external
// interrupt aborts the wait immediately. Returns ctx.Err() on
// cancellation, nil once the delay has elapsed.
func (p RetryPolicy) Wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.Delay(attempt))
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

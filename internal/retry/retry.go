// Package retry runs bounded attempts of an operation with paced waits.
package retry

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Policy bounds a retried operation.
type Policy struct {
	// Attempts is the total number of tries; values below 1 mean one try.
	Attempts int
	// Backoff is the minimum spacing between the start of two attempts.
	Backoff time.Duration
	// Timeout limits each attempt individually; zero leaves the parent context alone.
	Timeout time.Duration
}

// Do calls op until it succeeds, returns an error retryable rejects, or the
// policy runs out of attempts. The last error is returned.
func Do(ctx context.Context, policy Policy, retryable func(error) bool, op func(context.Context) error) error {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	limit := rate.Inf
	if policy.Backoff > 0 {
		limit = rate.Every(policy.Backoff)
	}
	limiter := rate.NewLimiter(limit, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if waitErr := limiter.Wait(ctx); waitErr != nil {
			if err != nil {
				return err
			}
			return waitErr
		}
		err = runAttempt(ctx, policy.Timeout, op)
		if err == nil {
			return nil
		}
		if retryable == nil || !retryable(err) || ctx.Err() != nil {
			return err
		}
	}
	return err
}

func runAttempt(parent context.Context, timeout time.Duration, op func(context.Context) error) error {
	if timeout <= 0 {
		return op(parent)
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()
	return op(ctx)
}

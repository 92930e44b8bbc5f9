// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package retry provides a reusable retry policy for transient failures.

It generalizes the "try N times with backoff" pattern so the attempt budget
and delay curve are declared once and unit-testable independent of any caller
(profile provisioning is the primary consumer today).

Semantics:

  - Exactly MaxAttempts invocations on persistent failure — never one more.
  - Delays suspend via a sleeper function, not a busy-wait.
  - Context cancellation aborts between attempts, returning the last error.
*/
package retry

import (
	"context"
	"time"
)

// Policy describes how many times an operation may run and how long to wait
// between attempts.
type Policy struct {
	// MaxAttempts is the total invocation budget (first try included).
	MaxAttempts int

	// Backoff returns the delay to apply after the given failed attempt.
	// Attempts are 1-based, so a linear curve is base × attempt.
	Backoff func(attempt int) time.Duration

	// Sleep suspends the calling goroutine. Injectable so tests run without
	// real delays. Nil defaults to a context-aware [time.Timer] wait.
	Sleep func(ctx context.Context, d time.Duration)
}

// Linear returns a backoff function producing base × attempt delays.
func Linear(base time.Duration) func(attempt int) time.Duration {
	return func(attempt int) time.Duration {
		return base * time.Duration(attempt)
	}
}

/*
Do runs fn until it succeeds or the attempt budget is exhausted.

Parameters:
  - ctx: context.Context (checked between attempts)
  - fn: The operation; a nil return stops retrying immediately

Returns:
  - error: nil on success, the last attempt's error on exhaustion,
    or ctx.Err() if the context is cancelled between attempts
*/
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = waitTimer
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		// No delay after the final attempt — the budget is spent.
		if attempt < attempts && p.Backoff != nil {
			sleep(ctx, p.Backoff(attempt))
		}
	}

	return lastErr
}

// waitTimer blocks for d or until the context is cancelled.
func waitTimer(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

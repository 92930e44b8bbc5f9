// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/platform/retry"
)

// noSleep makes delays instantaneous while recording them.
func noSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) {
	return func(_ context.Context, d time.Duration) {
		*delays = append(*delays, d)
	}
}

/*
TestPolicy_ExhaustsExactBudget verifies a persistently failing operation
runs exactly MaxAttempts times — never one more.
*/
func TestPolicy_ExhaustsExactBudget(t *testing.T) {
	var delays []time.Duration
	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Linear(10 * time.Millisecond),
		Sleep:       noSleep(&delays),
	}

	attempts := 0
	failure := errors.New("storage down")

	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return failure
	})

	require.Error(t, err)
	assert.Equal(t, failure, err)
	assert.Equal(t, 3, attempts)

	// No delay after the final attempt.
	require.Len(t, delays, 2)
	assert.Equal(t, 10*time.Millisecond, delays[0])
	assert.Equal(t, 20*time.Millisecond, delays[1])
}

/*
TestPolicy_StopsOnSuccess verifies the third attempt succeeding stops the
loop with a nil error.
*/
func TestPolicy_StopsOnSuccess(t *testing.T) {
	var delays []time.Duration
	policy := retry.Policy{
		MaxAttempts: 5,
		Backoff:     retry.Linear(time.Millisecond),
		Sleep:       noSleep(&delays),
	}

	attempts := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, delays, 2)
}

/*
TestPolicy_FirstAttemptSuccess verifies a clean first attempt never sleeps.
*/
func TestPolicy_FirstAttemptSuccess(t *testing.T) {
	var delays []time.Duration
	policy := retry.Policy{
		MaxAttempts: 3,
		Backoff:     retry.Linear(time.Second),
		Sleep:       noSleep(&delays),
	}

	attempts := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

/*
TestPolicy_ContextCancellation verifies cancellation between attempts
aborts the loop.
*/
func TestPolicy_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := retry.Policy{
		MaxAttempts: 10,
		Backoff:     retry.Linear(time.Millisecond),
		Sleep:       func(_ context.Context, _ time.Duration) { cancel() },
	}

	attempts := 0
	err := policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, attempts)
}

/*
TestPolicy_ZeroAttemptsDefaultsToOne guards against a misconfigured budget
silently skipping the operation.
*/
func TestPolicy_ZeroAttemptsDefaultsToOne(t *testing.T) {
	policy := retry.Policy{MaxAttempts: 0}

	attempts := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

package verifier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Raizedd/compass/internal/verifier"
)

func fastPolicy() verifier.RetryPolicy {
	return verifier.RetryPolicy{
		InitialWait: time.Millisecond,
		MaxWait:     20 * time.Millisecond,
		Budget:      100 * time.Millisecond,
	}
}

func TestRetryPolicy_AlreadyFired(t *testing.T) {
	sig := verifier.NewSignal()
	sig.Resolve(nil)

	err := fastPolicy().Wait(context.Background(), sig)

	assert.NoError(t, err)
}

func TestRetryPolicy_FiresMidWait(t *testing.T) {
	sig := verifier.NewSignal()
	go func() {
		time.Sleep(5 * time.Millisecond)
		sig.Resolve(nil)
	}()

	start := time.Now()
	err := fastPolicy().Wait(context.Background(), sig)

	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRetryPolicy_BudgetExhausted(t *testing.T) {
	sig := verifier.NewSignal()

	start := time.Now()
	err := fastPolicy().Wait(context.Background(), sig)

	assert.ErrorIs(t, err, verifier.ErrWaitDeadline)
	// Doubling from 1ms capped at 20ms per step keeps the overrun small.
	assert.Less(t, time.Since(start), time.Second)
}

func TestRetryPolicy_PerStepCapAborts(t *testing.T) {
	sig := verifier.NewSignal()
	policy := verifier.RetryPolicy{
		InitialWait: 50 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Budget:      10 * time.Second,
	}

	start := time.Now()
	err := policy.Wait(context.Background(), sig)

	// The first step already exceeds MaxWait, so no sleep happens at all.
	assert.ErrorIs(t, err, verifier.ErrWaitDeadline)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestRetryPolicy_ContextCancelled(t *testing.T) {
	sig := verifier.NewSignal()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(2 * time.Millisecond)
		cancel()
	}()

	policy := verifier.RetryPolicy{
		InitialWait: 50 * time.Millisecond,
		MaxWait:     time.Second,
		Budget:      10 * time.Second,
	}
	err := policy.Wait(ctx, sig)

	assert.ErrorIs(t, err, context.Canceled)
}

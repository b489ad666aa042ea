package verifier

import (
	"context"
	"errors"
	"time"
)

// ErrWaitDeadline - the signal did not fire within the policy's budget.
var ErrWaitDeadline = errors.New("verifier: timed out waiting for connected signal")

// RetryPolicy bounds the wait for the connected signal. Each check that
// finds the signal unfired doubles the wait; the wait aborts when the
// next step would exceed MaxWait or the elapsed time exceeds Budget.
type RetryPolicy struct {
	InitialWait time.Duration
	MaxWait     time.Duration
	Budget      time.Duration
}

// DefaultRetryPolicy tolerates slow container cold starts while keeping
// the total wait bounded.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialWait: 100 * time.Millisecond,
		MaxWait:     8 * time.Second,
		Budget:      30 * time.Second,
	}
}

// Wait sleeps in doubling steps until sig fires, the policy budget runs
// out, or ctx is cancelled. Returns nil when the signal fired,
// ErrWaitDeadline when the budget ran out.
func (p RetryPolicy) Wait(ctx context.Context, sig *Signal) error {
	start := time.Now()
	wait := p.InitialWait

	for {
		if sig.Fired() {
			return nil
		}
		if wait > p.MaxWait || time.Since(start) > p.Budget {
			return ErrWaitDeadline
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-sig.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}

		wait *= 2
	}
}

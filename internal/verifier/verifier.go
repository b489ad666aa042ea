// Package verifier performs a full connect-verify-disconnect cycle
// against a data service and reports a single verdict: arm a single-shot
// connected signal, trigger the connect, wait with bounded backoff,
// fetch instance metadata, compare it against an expected fixture, then
// disconnect.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Raizedd/compass/internal/dataservice"
	"github.com/Raizedd/compass/internal/fixture"
)

// disconnectTimeout bounds the best-effort cleanup disconnect when the
// caller's context is already gone, and the window in which a connect
// attempt that outlived the wait budget is still reaped.
const disconnectTimeout = 5 * time.Second

// Verifier runs one verification at a time against a data service.
// Each Verify call owns its own signal and verdict; no state is shared
// across runs.
type Verifier struct {
	svc    dataservice.DataService
	policy RetryPolicy
}

func New(svc dataservice.DataService, policy RetryPolicy) *Verifier {
	return &Verifier{svc: svc, policy: policy}
}

// Verify executes the full cycle and returns the verdict. The returned
// verdict is never nil; inspect Passed and Failures.
//
// Ordering invariants:
//   - the signal is armed before the connect is triggered;
//   - a connect timeout means Instance is never called;
//   - Disconnect is attempted after every verdict, pass or fail;
//   - a connection established after the wait budget expired is still
//     torn down, so it cannot leak into the next run.
func (v *Verifier) Verify(ctx context.Context, expected *fixture.Fixture) *Verdict {
	start := time.Now()
	verdict := &Verdict{Passed: true}

	// Arm the listener before triggering the connect so a fast connect
	// cannot fire into the void. The connect attempt gets its own
	// cancellable context so an expired wait can call it off.
	sig := NewSignal()
	cctx, ccancel := context.WithCancel(ctx)
	defer ccancel()
	go v.svc.Connect(cctx, sig.Resolve)

	err := v.policy.Wait(ctx, sig)
	verdict.ConnectWait = time.Since(start)

	switch {
	case errors.Is(err, ErrWaitDeadline):
		ccancel()
		verdict.addFailure(Failure{Kind: KindConnectTimeout, Cause: err})
		v.reapLateConnection(ctx, sig)
	case err != nil:
		// Caller cancellation, kept distinguishable from a genuine
		// budget exhaustion through the wrapped cause.
		ccancel()
		verdict.addFailure(Failure{
			Kind:  KindConnectTimeout,
			Cause: fmt.Errorf("connect wait cancelled: %w", err),
		})
		v.reapLateConnection(ctx, sig)
	case sig.Err() != nil:
		verdict.addFailure(Failure{Kind: KindConnectError, Cause: sig.Err()})
	default:
		if n := sig.FireCount(); n > 1 {
			verdict.addFailure(Failure{
				Kind:  KindDuplicateConnectEvent,
				Cause: fmt.Errorf("connected signal fired %d times", n),
			})
		} else {
			v.fetchAndCompare(ctx, expected, verdict)
		}
	}

	// A second firing typically lands after the first one unblocked the
	// wait, so re-check before settling the verdict.
	if n := sig.FireCount(); n > 1 && !verdict.hasKind(KindDuplicateConnectEvent) {
		verdict.addFailure(Failure{
			Kind:  KindDuplicateConnectEvent,
			Cause: fmt.Errorf("connected signal fired %d times", n),
		})
	}

	// Cleanup invariant: disconnect is attempted even after a timeout so
	// a late-established connection does not leak into the next run.
	v.disconnect(ctx, verdict)

	verdict.Elapsed = time.Since(start)
	return verdict
}

func (v *Verifier) fetchAndCompare(ctx context.Context, expected *fixture.Fixture, verdict *Verdict) {
	meta, err := v.svc.Instance(ctx)
	if err != nil {
		verdict.addFailure(Failure{Kind: KindMetadataFetchError, Cause: err})
		return
	}
	verdict.Metadata = meta

	if expected == nil {
		return
	}
	for _, m := range expected.Match(meta) {
		verdict.addFailure(Failure{
			Kind:     KindAssertionMismatch,
			Field:    m.Field,
			Expected: m.Expected,
			Actual:   m.Actual,
		})
	}
}

// reapLateConnection handles a connect attempt that outlived the wait.
// The in-flight attempt has been cancelled, but an adapter that does not
// honour cancellation may still land a live connection after the main
// cleanup disconnect already ran against nothing; wait out the signal
// for a bounded window and tear that connection down.
func (v *Verifier) reapLateConnection(ctx context.Context, sig *Signal) {
	go func() {
		select {
		case <-sig.Done():
		case <-time.After(disconnectTimeout):
			return
		}
		if sig.Err() != nil {
			return
		}

		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer cancel()
		if err := v.svc.Disconnect(dctx); err != nil {
			log.Printf("Late connection teardown failed: %v", err)
		}
	}()
}

func (v *Verifier) disconnect(ctx context.Context, verdict *Verdict) {
	dctx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
		defer cancel()
	}

	if err := v.svc.Disconnect(dctx); err != nil {
		log.Printf("Disconnect failed (verdict unaffected): %v", err)
		verdict.addFailure(Failure{Kind: KindDisconnectError, Cause: err})
	}
}

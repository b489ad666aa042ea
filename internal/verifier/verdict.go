package verifier

import (
	"fmt"
	"time"

	"github.com/Raizedd/compass/internal/dataservice"
)

// FailureKind classifies where a verification run went wrong.
type FailureKind string

const (
	KindConnectTimeout        FailureKind = "connect_timeout"
	KindConnectError          FailureKind = "connect_error"
	KindDuplicateConnectEvent FailureKind = "duplicate_connect_event"
	KindMetadataFetchError    FailureKind = "metadata_fetch_error"
	KindAssertionMismatch     FailureKind = "assertion_mismatch"
	KindDisconnectError       FailureKind = "disconnect_error"
)

// Failure is one recorded defect from a verification run.
type Failure struct {
	Kind     FailureKind
	Field    string
	Expected string
	Actual   string
	Cause    error
}

func (f Failure) Error() string {
	switch {
	case f.Kind == KindAssertionMismatch:
		return fmt.Sprintf("%s: %s: expected %q, got %q", f.Kind, f.Field, f.Expected, f.Actual)
	case f.Cause != nil:
		return fmt.Sprintf("%s: %v", f.Kind, f.Cause)
	default:
		return string(f.Kind)
	}
}

func (f Failure) Unwrap() error { return f.Cause }

// Verdict is the outcome of one full connect-verify-disconnect cycle.
// A disconnect failure is recorded but never overturns an otherwise
// passing verdict.
type Verdict struct {
	Passed   bool
	Failures []Failure

	// Metadata is the fetched snapshot, nil when the fetch never ran.
	Metadata *dataservice.InstanceMetadata

	ConnectWait time.Duration
	Elapsed     time.Duration
}

// addFailure appends f and recomputes Passed. Disconnect errors do not
// count against the verdict.
func (v *Verdict) addFailure(f Failure) {
	v.Failures = append(v.Failures, f)
	if f.Kind != KindDisconnectError {
		v.Passed = false
	}
}

func (v *Verdict) hasKind(kind FailureKind) bool {
	for _, f := range v.Failures {
		if f.Kind == kind {
			return true
		}
	}
	return false
}

// FailureKinds lists the kinds recorded, in order, for log lines.
func (v *Verdict) FailureKinds() []FailureKind {
	kinds := make([]FailureKind, 0, len(v.Failures))
	for _, f := range v.Failures {
		kinds = append(kinds, f.Kind)
	}
	return kinds
}

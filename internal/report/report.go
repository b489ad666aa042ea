// Package report turns verdicts into the JSON records that travel to
// the event bus and the history store.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/Raizedd/compass/internal/dataservice"
	"github.com/Raizedd/compass/internal/system"
	"github.com/Raizedd/compass/internal/verifier"
)

type FailureRecord struct {
	Kind     string `json:"kind"`
	Field    string `json:"field,omitempty"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Report is one verification run, flattened for transport.
type Report struct {
	RunID   string `json:"run_id"`
	Target  string `json:"target"`
	Kind    string `json:"kind"`
	Profile string `json:"profile,omitempty"`

	Passed   bool            `json:"passed"`
	Failures []FailureRecord `json:"failures,omitempty"`

	Metadata *dataservice.InstanceMetadata `json:"metadata,omitempty"`

	ConnectWaitMs int64 `json:"connect_wait_ms"`
	ElapsedMs     int64 `json:"elapsed_ms"`

	Harness   *system.HostFacts `json:"harness,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// FromVerdict builds a transport record from a settled verdict.
func FromVerdict(v *verifier.Verdict, target, kind, profile string) *Report {
	r := &Report{
		RunID:         uuid.NewString(),
		Target:        target,
		Kind:          kind,
		Profile:       profile,
		Passed:        v.Passed,
		Metadata:      v.Metadata,
		ConnectWaitMs: v.ConnectWait.Milliseconds(),
		ElapsedMs:     v.Elapsed.Milliseconds(),
		Harness:       system.Collect(),
		CreatedAt:     time.Now().UTC(),
	}

	for _, f := range v.Failures {
		rec := FailureRecord{
			Kind:     string(f.Kind),
			Field:    f.Field,
			Expected: f.Expected,
			Actual:   f.Actual,
		}
		if f.Cause != nil {
			rec.Error = f.Cause.Error()
		}
		r.Failures = append(r.Failures, rec)
	}

	return r
}

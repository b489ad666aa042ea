package verifier_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Raizedd/compass/internal/verifier"
)

func TestSignal_InitiallyUnfired(t *testing.T) {
	sig := verifier.NewSignal()

	assert.False(t, sig.Fired())
	assert.Equal(t, 0, sig.FireCount())
	assert.NoError(t, sig.Err())

	select {
	case <-sig.Done():
		t.Fatal("Done channel closed before Resolve")
	default:
	}
}

func TestSignal_ResolveOnce(t *testing.T) {
	sig := verifier.NewSignal()
	cause := errors.New("boom")

	sig.Resolve(cause)

	assert.True(t, sig.Fired())
	assert.Equal(t, 1, sig.FireCount())
	assert.Equal(t, cause, sig.Err())

	select {
	case <-sig.Done():
	default:
		t.Fatal("Done channel not closed after Resolve")
	}
}

func TestSignal_SecondResolveCountedNotApplied(t *testing.T) {
	sig := verifier.NewSignal()

	sig.Resolve(nil)
	sig.Resolve(errors.New("late failure"))

	// The outcome is fixed by the first call; the second only counts.
	assert.Equal(t, 2, sig.FireCount())
	assert.NoError(t, sig.Err())
}

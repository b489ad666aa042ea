package verifier

import "sync"

// Signal is a single-shot connected signal. The first Resolve fixes the
// outcome and unblocks waiters; later calls are counted instead of
// applied, so the verifier can report a connect action that fired its
// completion event more than once.
type Signal struct {
	mu    sync.Mutex
	done  chan struct{}
	err   error
	fired int
}

func NewSignal() *Signal {
	return &Signal{done: make(chan struct{})}
}

// Resolve records the connect outcome. Safe to call from any goroutine.
func (s *Signal) Resolve(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fired++
	if s.fired == 1 {
		s.err = err
		close(s.done)
	}
}

// Fired reports whether the signal has resolved.
func (s *Signal) Fired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired > 0
}

// FireCount returns how many times Resolve has been called.
func (s *Signal) FireCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired
}

// Err returns the error recorded by the first Resolve, nil before then.
func (s *Signal) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Done is closed once the signal resolves.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

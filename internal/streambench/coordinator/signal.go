package coordinator

import "sync"

// ShutdownSignal is a one-shot broadcast. Fire may be called any number of times from any
// goroutine; only the first call has an effect.
type ShutdownSignal struct {
	once sync.Once
	ch   chan struct{}
}

func NewShutdownSignal() *ShutdownSignal {
	return &ShutdownSignal{ch: make(chan struct{})}
}

// Fire reports whether this call was the one that fired the signal.
func (s *ShutdownSignal) Fire() bool {
	fired := false
	s.once.Do(func() {
		close(s.ch)
		fired = true
	})
	return fired
}

// Fired never blocks.
func (s *ShutdownSignal) Fired() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}

// Done is closed once the signal has fired.
func (s *ShutdownSignal) Done() <-chan struct{} {
	return s.ch
}

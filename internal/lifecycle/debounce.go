package lifecycle

import (
	"sync"
	"time"
)

// Saver coalesces rapid successive writes for the same key into a
// single write after a quiet period. Teardown must call Close (or
// Flush) so the final state is never dropped.
type Saver struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]func()
	gens    map[string]uint64
	closed  bool
}

func NewSaver(delay time.Duration) *Saver {
	return &Saver{
		delay:   delay,
		timers:  map[string]*time.Timer{},
		pending: map[string]func(){},
		gens:    map[string]uint64{},
	}
}

// Schedule queues write to run after the quiet period. A newer write
// for the same key replaces the queued one and restarts the timer.
// After Close, writes run synchronously instead of being dropped.
func (s *Saver) Schedule(key string, write func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		write()
		return
	}
	if timer, ok := s.timers[key]; ok {
		timer.Stop()
	}
	s.gens[key]++
	gen := s.gens[key]
	s.pending[key] = write
	s.timers[key] = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		if s.gens[key] != gen {
			// A replaced timer can still fire if Stop lost the race.
			// Only the timer for the latest write may consume it.
			s.mu.Unlock()
			return
		}
		w := s.pending[key]
		delete(s.pending, key)
		delete(s.timers, key)
		s.mu.Unlock()
		if w != nil {
			w()
		}
	})
	s.mu.Unlock()
}

// Flush runs every queued write immediately.
func (s *Saver) Flush() {
	s.mu.Lock()
	writes := make([]func(), 0, len(s.pending))
	for key, w := range s.pending {
		if timer, ok := s.timers[key]; ok {
			timer.Stop()
		}
		s.gens[key]++
		writes = append(writes, w)
		delete(s.pending, key)
		delete(s.timers, key)
	}
	s.mu.Unlock()

	for _, w := range writes {
		w()
	}
}

// Close flushes queued writes and switches to synchronous mode.
func (s *Saver) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.Flush()
}

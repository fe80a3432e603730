package runtimepolicy

import "sync"

// OutputLatch is a single-slot, last-writer-wins holder for the most recent
// terminal event's pretty-printed string form. Guarded by its own mutex,
// distinct from TraceBuffer's, so output bursts and trace bursts never
// contend with each other (spec §5, §9).
type OutputLatch struct {
	mu    sync.Mutex
	value string
}

// Set overwrites the latched value.
func (l *OutputLatch) Set(value string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.value = value
}

// Get returns a copy of the latched value.
func (l *OutputLatch) Get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

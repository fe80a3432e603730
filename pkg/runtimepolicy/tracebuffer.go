package runtimepolicy

import (
	"sort"
	"sync"
)

// historyEntry is one condition firing, in arrival order.
type historyEntry struct {
	asset   string
	payload string
}

// TraceBuffer is the per-RuntimePolicy store of trace records: an ordered
// condition history (cleared on every render) and a per-asset ordered
// bucket of raw verbose lines (cleared lazily, per asset, when a detailed
// render consumes it). All operations are serialized by a single mutex;
// see spec §5 for why this is kept separate from the output latch's mutex.
type TraceBuffer struct {
	mu      sync.Mutex
	history []historyEntry
	verbose map[string][]string
}

// NewTraceBuffer constructs an empty TraceBuffer.
func NewTraceBuffer() *TraceBuffer {
	return &TraceBuffer{
		verbose: make(map[string][]string),
	}
}

// AppendCondition records one condition firing. No deduplication happens
// here — a rule that fires three times on one event appends three entries.
func (b *TraceBuffer) AppendCondition(asset, payload string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = append(b.history, historyEntry{asset: asset, payload: payload})
}

// AppendVerbose records one raw trace line under its asset's bucket.
func (b *TraceBuffer) AppendVerbose(asset, raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.verbose[asset] = append(b.verbose[asset], raw)
}

// DrainHistory returns the current condition history and empties it
// atomically. Callers own the returned slice.
func (b *TraceBuffer) DrainHistory() []historyEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	drained := b.history
	b.history = nil
	return drained
}

// TakeVerbose returns the unique raw lines currently buffered for asset, in
// lexicographic order for deterministic rendering, and clears that asset's
// bucket. Deduplication is byte-exact.
func (b *TraceBuffer) TakeVerbose(asset string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := b.verbose[asset]
	if len(lines) == 0 {
		delete(b.verbose, asset)
		return nil
	}

	seen := make(map[string]struct{}, len(lines))
	unique := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		unique = append(unique, l)
	}
	delete(b.verbose, asset)
	sort.Strings(unique)
	return unique
}

// Depth returns the total number of verbose lines currently buffered across
// all assets. Read-only; used for observability sampling, never consulted
// by render or ingest.
func (b *TraceBuffer) Depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, lines := range b.verbose {
		n += len(lines)
	}
	return n
}

// Reset clears both the condition history and every asset's verbose
// bucket. Used on RuntimePolicy teardown.
func (b *TraceBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
	b.verbose = make(map[string][]string)
}

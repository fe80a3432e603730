package runtimepolicy

import (
	"encoding/json"
	"strings"
)

// renderTrace builds the trace object for one render call, given the
// drained condition history and the buffer to pull verbose lines from for
// DebugModeWithDetails. It never mutates history beyond what callers
// already drained.
//
// Trace keys are the literal asset id (e.g. "decoder/d/0"), not a JSON
// Pointer encoding of it: a flat map keyed by the asset id verbatim is what
// the wire format requires.
func renderTrace(mode DebugMode, history []historyEntry, buffer *TraceBuffer) (string, error) {
	trace := make(map[string]string)

	switch mode {
	case OutputOnly:
		// trace stays empty.

	case OutputAndTraces:
		for _, entry := range history {
			trace[entry.asset] = entry.payload
		}

	case OutputAndTracesWithDetails:
		for _, entry := range history {
			lines := buffer.TakeVerbose(entry.asset)
			trace[entry.asset] = strings.Join(lines, "")
		}
	}

	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Package runtimepolicy provides the runtime execution core for a single
// policy under test: it builds a pipeline from a Builder, drives events
// through the resulting Controller, and renders combined output and trace
// artifacts for interactive debugging.
//
// # Architecture
//
// The package is a small pipeline of its own:
//
//  1. Classifier - parses one raw trace line into condition/verbose records
//  2. TraceBuffer - holds per-asset verbose lines and the pending condition log
//  3. OutputLatch - holds the most recent terminal output
//  4. RuntimePolicy - owns the above, wires Builder/Controller, exposes the
//     public Build/Ingest/Render surface
//  5. Render - combines OutputLatch + TraceBuffer into a (output, trace JSON)
//     pair for a requested DebugMode
//
// # Basic usage
//
//	rp := runtimepolicy.New("policy/block-exfil/1", controllerFactory, nil)
//	if err := rp.Build(ctx, builder); err != nil {
//	    log.Fatal(err)
//	}
//	if err := rp.Ingest(ctx, event); err != nil {
//	    log.Fatal(err)
//	}
//	output, trace := rp.Render(runtimepolicy.OutputAndTracesWithDetails)
package runtimepolicy

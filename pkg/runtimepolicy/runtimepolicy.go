package runtimepolicy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// state is the RuntimePolicy lifecycle: UNBUILT -> BUILT is the only legal
// transition, and it is permanent for the instance's lifetime (spec §3,
// invariant I4).
type state int

const (
	stateUnbuilt state = iota
	stateBuilt
)

// RuntimePolicy owns a built pipeline for one policy id: it wires a
// Builder-produced Controller to its own trace/output buffers, accepts
// events, and renders a combined (output, trace) artifact on demand. See
// package doc for the overall shape.
type RuntimePolicy struct {
	policyID string
	logger   *slog.Logger

	newController ControllerFactory

	// mu guards the state machine and controller handle. It is distinct
	// from the output and trace locks (owned by OutputLatch/TraceBuffer),
	// which are only ever taken by the subscriber callbacks and Render.
	mu         sync.Mutex
	st         state
	controller Controller

	output *OutputLatch
	traces *TraceBuffer
}

// New constructs a RuntimePolicy in state UNBUILT for the given policy id.
// newController is the factory used at Build time to wrap whatever
// PipelineExpression the Builder produces; logger may be nil.
func New(policyID string, newController ControllerFactory, logger *slog.Logger) *RuntimePolicy {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuntimePolicy{
		policyID:      policyID,
		logger:        logger.With("policy_id", policyID),
		newController: newController,
		st:            stateUnbuilt,
		output:        &OutputLatch{},
		traces:        NewTraceBuffer(),
	}
}

// PolicyID returns the immutable policy identifier this instance was
// constructed with.
func (p *RuntimePolicy) PolicyID() string {
	return p.policyID
}

// TraceDepth returns the number of verbose trace lines currently buffered,
// for observability sampling.
func (p *RuntimePolicy) TraceDepth() int {
	return p.traces.Depth()
}

// Build asks builder for a pipeline expression for this policy id, wraps it
// in a new Controller, and wires the trace/output subscribers. Called at
// most once per instance; a second call returns AlreadyBuiltError and
// leaves the first successful build's pipeline untouched (spec P5).
func (p *RuntimePolicy) Build(ctx context.Context, builder Builder) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.st == stateBuilt {
		return &AlreadyBuiltError{PolicyID: p.policyID}
	}

	expr, err := builder.BuildPolicy(ctx, p.policyID)
	if err != nil {
		return &BuildFailureError{PolicyID: p.policyID, Cause: err}
	}

	controller, err := p.newController(expr)
	if err != nil {
		return &BuildFailureError{PolicyID: p.policyID, Cause: err}
	}

	controller.SubscribeOutput(p.output.Set)
	controller.SubscribeTraces(p.onTraceLine)

	p.controller = controller
	p.st = stateBuilt

	p.logger.Info("runtime policy built")
	return nil
}

// onTraceLine is the trace subscriber callback: it runs the line through
// the classifier and forwards whatever it finds into the trace buffer. It
// must never block on I/O (spec §5) and never lets a panic escape into the
// Controller.
func (p *RuntimePolicy) onTraceLine(line string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("trace subscriber recovered from panic", "panic", r)
		}
	}()

	cond, verbose := Classify(line)
	if cond != nil {
		p.traces.AppendCondition(cond.Asset, cond.Payload)
	}
	if verbose != nil {
		p.traces.AppendVerbose(verbose.Asset, verbose.Raw)
	}
}

// Ingest hands event to the built Controller and returns as soon as it is
// accepted; it does not wait for the event to traverse the pipeline (spec
// §4.4, §5). Rejected with NotBuiltError while UNBUILT.
func (p *RuntimePolicy) Ingest(ctx context.Context, event Event) error {
	p.mu.Lock()
	if p.st != stateBuilt {
		p.mu.Unlock()
		return &NotBuiltError{PolicyID: p.policyID}
	}
	controller := p.controller
	p.mu.Unlock()

	return controller.Ingest(ctx, event)
}

// Render copies the latched output, drains the condition history, and
// builds the trace object shaped by mode. On return, the condition history
// is empty (spec invariant I3) regardless of mode or error.
func (p *RuntimePolicy) Render(mode DebugMode) (output string, traceJSON string) {
	output = p.output.Get()
	history := p.traces.DrainHistory()

	traceJSON, err := renderTrace(mode, history, p.traces)
	if err != nil {
		p.logger.Error("failed to render trace", "error", err)
		return output, "{}"
	}
	return output, traceJSON
}

// Close tears down the Controller, detaching all subscribers, and clears
// the trace buffer. No further traces may be delivered once Close returns.
func (p *RuntimePolicy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.st != stateBuilt || p.controller == nil {
		return nil
	}

	err := p.controller.Close()
	p.traces.Reset()
	p.logger.Info("runtime policy closed")
	if err != nil {
		return fmt.Errorf("closing controller for policy %q: %w", p.policyID, err)
	}
	return nil
}

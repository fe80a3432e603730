package server

import (
	"context"
	"errors"

	"sentinel/policyrtd/pkg/runtimepolicy"
)

// fakeController is a synchronous, in-memory runtimepolicy.Controller for
// tests: Ingest immediately invokes whatever output sink is registered.
type fakeController struct {
	onIngest   func(event runtimepolicy.Event) string
	outputSink func(string)
	traceSink  func(string)
	closed     bool
}

func (c *fakeController) Ingest(ctx context.Context, event runtimepolicy.Event) error {
	if c.outputSink != nil && c.onIngest != nil {
		c.outputSink(c.onIngest(event))
	}
	return nil
}

func (c *fakeController) SubscribeOutput(sink func(string)) { c.outputSink = sink }
func (c *fakeController) SubscribeTraces(sink func(string)) { c.traceSink = sink }

func (c *fakeController) Close() error {
	c.closed = true
	return nil
}

// fakeBuilder resolves every policy id it is given to a fresh
// fakeController, or fails for ids listed in failFor.
type fakeBuilder struct {
	failFor map[string]bool
}

func newFakeBuilder() *fakeBuilder {
	return &fakeBuilder{failFor: make(map[string]bool)}
}

func (b *fakeBuilder) BuildPolicy(ctx context.Context, policyID string) (runtimepolicy.PipelineExpression, error) {
	if b.failFor[policyID] {
		return nil, errors.New("unknown policy id")
	}
	return &fakeController{
		onIngest: func(event runtimepolicy.Event) string {
			return "ok"
		},
	}, nil
}

func fakeControllerFactory() runtimepolicy.ControllerFactory {
	return func(expr runtimepolicy.PipelineExpression) (runtimepolicy.Controller, error) {
		return expr.(*fakeController), nil
	}
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"sentinel/policyrtd/pkg/policylang/ast"
	"sentinel/policyrtd/pkg/runtimepolicy"
)

// Controller runs a compiled Expression against every ingested asset on a
// fixed-size worker pool, delivering output and trace lines through the
// callbacks a runtimepolicy.RuntimePolicy subscribes at Build time. It
// never calls back on the goroutine that called Ingest.
type Controller struct {
	expr     *Expression
	executor *Executor
	cfg      *Config
	logger   *slog.Logger

	queue chan runtimepolicy.Event

	sinkMu     sync.RWMutex
	outputSink func(string)
	traceSink  func(string)

	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
}

// NewController builds a Controller from a compiled Expression. cfg and
// logger may be nil, in which case DefaultConfig and slog.Default are
// used.
func NewController(expr *Expression, cfg *Config, logger *slog.Logger) (*Controller, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		expr:     expr,
		executor: NewExecutor(expr.Matcher),
		cfg:      cfg,
		logger:   logger.With("policy", expr.Policy.Name),
		queue:    make(chan runtimepolicy.Event, cfg.QueueSize),
		closed:   make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		c.wg.Add(1)
		go c.worker()
	}

	return c, nil
}

// NewControllerFactory returns a runtimepolicy.ControllerFactory that
// compiles each incoming PipelineExpression (expected to be an
// *Expression, as produced by Builder) into a running Controller.
func NewControllerFactory(cfg *Config, logger *slog.Logger) runtimepolicy.ControllerFactory {
	return func(expr runtimepolicy.PipelineExpression) (runtimepolicy.Controller, error) {
		compiled, ok := expr.(*Expression)
		if !ok {
			return nil, fmt.Errorf("pipeline controller factory: unexpected expression type %T", expr)
		}
		return NewController(compiled, cfg, logger)
	}
}

func (c *Controller) Ingest(ctx context.Context, event runtimepolicy.Event) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}

	select {
	case c.queue <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (c *Controller) SubscribeOutput(sink func(string)) {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	c.outputSink = sink
}

func (c *Controller) SubscribeTraces(sink func(string)) {
	c.sinkMu.Lock()
	defer c.sinkMu.Unlock()
	c.traceSink = sink
}

// Close signals every worker to stop and waits for them to exit; events
// still queued at that point are not processed. It
// closes c.closed only, never c.queue: a concurrent Ingest can be past its
// closed-check and about to send on c.queue when this runs, and sending on
// a channel Close just closed out from under it would panic that caller's
// goroutine. Leaving c.queue open means a send racing Close either lands
// harmlessly in a buffer nothing will read, or hits ErrQueueFull — never a
// panic.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	c.wg.Wait()

	c.sinkMu.Lock()
	c.outputSink = nil
	c.traceSink = nil
	c.sinkMu.Unlock()

	return nil
}

func (c *Controller) emitTrace(line string) {
	c.sinkMu.RLock()
	sink := c.traceSink
	c.sinkMu.RUnlock()
	if sink != nil {
		sink(line)
	}
}

func (c *Controller) emitOutput(output string) {
	c.sinkMu.RLock()
	sink := c.outputSink
	c.sinkMu.RUnlock()
	if sink != nil {
		sink(output)
	}
}

func (c *Controller) worker() {
	defer c.wg.Done()
	for {
		select {
		case <-c.closed:
			return
		case event := <-c.queue:
			c.process(event)
		}
	}
}

func (c *Controller) process(event runtimepolicy.Event) {
	asset, ok := event.(Asset)
	if !ok {
		c.logger.Error("pipeline controller received a non-Asset event", "type", fmt.Sprintf("%T", event))
		return
	}

	decision := newDecision(asset.ID)

	for _, rule := range c.expr.Policy.EnabledRules() {
		c.emitTrace(fmt.Sprintf("[%s] evaluating rule %s", asset.ID, rule.Name))

		matched := true
		if rule.HasConditions() {
			m, err := c.matchWithTimeout(rule, asset)
			if err != nil {
				c.emitTrace(fmt.Sprintf("[%s] [condition]: matched=false rule=%s error=%v", asset.ID, rule.Name, err))
				if c.cfg.FailSafeMode == FailClosed {
					decision.Blocked = true
					decision.Reason = "rule evaluation error"
				}
				continue
			}
			matched = m
			c.emitTrace(fmt.Sprintf("[%s] [condition]: matched=%v rule=%s", asset.ID, matched, rule.Name))
		}

		if !matched {
			continue
		}
		decision.Rules = append(decision.Rules, rule.Name)

		for _, action := range rule.Actions {
			summary, err := c.executor.Execute(action, asset, decision)
			if err != nil {
				c.emitTrace(fmt.Sprintf("[%s] action %s failed: %v", asset.ID, action.Type, err))
				continue
			}
			c.emitTrace(fmt.Sprintf("[%s] action %s: %s", asset.ID, action.Type, summary))
		}
	}

	if !decision.Blocked && !decision.Allowed {
		decision.Allowed = true
	}

	rendered, err := decision.Render()
	if err != nil {
		c.logger.Error("failed to render decision", "asset_id", asset.ID, "error", err)
		return
	}
	c.emitOutput(rendered)
}

// matchWithTimeout bounds rule condition evaluation to cfg.RuleTimeout, so
// a pathological regex or recursive function predicate cannot stall a
// worker indefinitely.
func (c *Controller) matchWithTimeout(rule *ast.Rule, asset Asset) (bool, error) {
	type result struct {
		matched bool
		err     error
	}
	done := make(chan result, 1)

	go func() {
		m, err := c.expr.Matcher.Match(rule.Conditions, asset)
		done <- result{matched: m, err: err}
	}()

	select {
	case r := <-done:
		return r.matched, r.err
	case <-time.After(c.cfg.RuleTimeout):
		return false, fmt.Errorf("rule %q timed out after %s", rule.Name, c.cfg.RuleTimeout)
	}
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"sentinel/policyrtd/pkg/policylang/ast"
	"sentinel/policyrtd/pkg/runtimepolicy"
)

// PolicySource resolves a policy id to its parsed AST. pkg/catalog
// implements this; kept as a narrow interface here so pipeline does not
// need to depend on catalog's storage backends.
type PolicySource interface {
	GetPolicy(ctx context.Context, policyID string) (*ast.Policy, error)
}

// Builder implements runtimepolicy.Builder by resolving a policy id
// against a PolicySource and compiling the result into an Expression.
type Builder struct {
	source PolicySource
	logger *slog.Logger
}

func NewBuilder(source PolicySource, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{source: source, logger: logger}
}

func (b *Builder) BuildPolicy(ctx context.Context, policyID string) (runtimepolicy.PipelineExpression, error) {
	policy, err := b.source.GetPolicy(ctx, policyID)
	if err != nil {
		return nil, fmt.Errorf("resolving policy %q: %w", policyID, err)
	}

	expr, err := Compile(policy)
	if err != nil {
		return nil, fmt.Errorf("compiling policy %q: %w", policyID, err)
	}

	b.logger.Info("compiled policy", "policy_id", policyID, "rule_count", policy.RuleCount())
	return expr, nil
}

package pipeline

import (
	"fmt"

	"sentinel/policyrtd/pkg/policylang/ast"
	"sentinel/policyrtd/pkg/policylang/validator"
)

// Expression is the compiled form of an asset policy: a validated AST plus
// the Matcher needed to evaluate it. It satisfies
// runtimepolicy.PipelineExpression and is produced by Builder.
type Expression struct {
	Policy  *ast.Policy
	Matcher *Matcher
}

// Compile validates policy and wraps it into an Expression ready for a
// Controller. It is the only place a malformed policy is rejected; once
// compiled, an Expression is assumed structurally and semantically sound.
func Compile(policy *ast.Policy) (*Expression, error) {
	if err := validator.NewValidator().Validate(policy); err != nil {
		return nil, fmt.Errorf("compiling policy %q: %w", policy.Name, err)
	}
	return &Expression{Policy: policy, Matcher: NewMatcher(policy)}, nil
}

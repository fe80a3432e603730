package validator

import (
	"fmt"

	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
)

// knownFunctions is the set of predicate names a function condition may
// call. Extending the asset language with a new predicate means adding it
// here and teaching the pipeline's condition evaluator about it.
var knownFunctions = map[string]int{
	"has_geo_anomaly":    1,
	"has_known_indicator": 1,
	"matches_cidr":        2,
	"rate_exceeds":        2,
	"in_allowlist":        2,
}

// knownActionTypes is the set of action types the pipeline can execute.
var knownActionTypes = map[ast.ActionType]bool{
	ast.ActionTypeAllow:     true,
	ast.ActionTypeBlock:     true,
	ast.ActionTypeEmit:      true,
	ast.ActionTypeTag:       true,
	ast.ActionTypeRoute:     true,
	ast.ActionTypeAlert:     true,
	ast.ActionTypeEnrich:    true,
	ast.ActionTypeRateLimit: true,
}

// SemanticValidator checks cross-references within an already
// structurally valid policy: variable references resolve and do not form
// cycles, function conditions name known functions with the right arity,
// and actions name known types.
type SemanticValidator struct {
	policy *ast.Policy
	errors *policyerrors.ErrorList
}

func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{errors: policyerrors.NewErrorList()}
}

func (v *SemanticValidator) Validate(policy *ast.Policy) error {
	v.policy = policy
	v.errors = policyerrors.NewErrorList()

	v.validateVariableReferences()

	for _, rule := range policy.Rules {
		if rule.Conditions != nil {
			v.validateCondition(rule.Conditions, rule.Name)
		}
		for _, action := range rule.Actions {
			v.validateAction(action, rule.Name)
		}
	}

	return v.errors.ToError()
}

func (v *SemanticValidator) validateVariableReferences() {
	visited := make(map[string]bool)
	for name := range v.policy.Variables {
		v.checkVariableCycle(name, visited, map[string]bool{}, nil)
	}
}

// checkVariableCycle walks a variable's reference chain looking for a
// cycle, reporting the cycle path if one exists.
func (v *SemanticValidator) checkVariableCycle(name string, visited, inProgress map[string]bool, path []string) {
	if visited[name] {
		return
	}
	if inProgress[name] {
		v.errors.AddError(policyerrors.ErrorTypeSemantic,
			fmt.Sprintf("cyclic variable reference: %v -> %s", path, name), ast.Location{})
		return
	}

	variable := v.policy.Variables[name]
	if variable == nil {
		return
	}

	inProgress[name] = true
	for _, ref := range v.extractVariableReferences(variable.Value) {
		v.checkVariableCycle(ref, visited, inProgress, append(path, name))
	}
	inProgress[name] = false
	visited[name] = true
}

func (v *SemanticValidator) extractVariableReferences(value *ast.ValueNode) []string {
	if value == nil {
		return nil
	}
	if value.Type == ast.ValueTypeVariable {
		return []string{value.VariableName}
	}
	return nil
}

func (v *SemanticValidator) validateCondition(cond *ast.ConditionNode, ruleName string) {
	switch cond.Type {
	case ast.ConditionTypeSimple:
		v.validateVariableValue(cond.Value, ruleName)
	case ast.ConditionTypeFunction:
		v.validateFunctionCondition(cond, ruleName)
	case ast.ConditionTypeAll, ast.ConditionTypeAny, ast.ConditionTypeNot:
		for _, child := range cond.Children {
			v.validateCondition(child, ruleName)
		}
	}
}

func (v *SemanticValidator) validateFunctionCondition(cond *ast.ConditionNode, ruleName string) {
	arity, known := knownFunctions[cond.Function]
	if !known {
		v.errors.AddError(policyerrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q calls unknown function %q", ruleName, cond.Function), cond.Location)
		return
	}
	if len(cond.Args) != arity {
		v.errors.AddError(policyerrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q calls %s with %d argument(s), want %d", ruleName, cond.Function, len(cond.Args), arity),
			cond.Location)
	}
	for _, arg := range cond.Args {
		v.validateVariableValue(arg, ruleName)
	}
}

func (v *SemanticValidator) validateVariableValue(value *ast.ValueNode, ruleName string) {
	if value == nil || value.Type != ast.ValueTypeVariable {
		return
	}
	if !v.policy.HasVariable(value.VariableName) {
		v.errors.AddError(policyerrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q references undefined variable %q", ruleName, value.VariableName), value.Location)
	}
}

func (v *SemanticValidator) validateAction(action *ast.Action, ruleName string) {
	if !knownActionTypes[action.Type] {
		v.errors.AddError(policyerrors.ErrorTypeSemantic,
			fmt.Sprintf("rule %q has unknown action type %q", ruleName, action.Type), action.Location)
	}
	for _, param := range action.Parameters {
		v.validateVariableValue(param, ruleName)
	}
}

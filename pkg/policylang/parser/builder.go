package parser

import (
	"fmt"
	"strings"
	"time"

	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
)

// builder lowers the intermediate YAML structures into ast nodes,
// preserving the source path for error locations.
type builder struct {
	sourcePath string
	errors     *policyerrors.ErrorList
}

func newBuilder(sourcePath string) *builder {
	return &builder{sourcePath: sourcePath, errors: policyerrors.NewErrorList()}
}

func (b *builder) loc() ast.Location {
	return ast.Location{File: b.sourcePath, Line: 1, Column: 1}
}

func (b *builder) buildPolicy(yp *yamlPolicy) (*ast.Policy, error) {
	policy := &ast.Policy{
		SpecVersion: yp.SpecVersion,
		Name:        yp.Name,
		Version:     yp.Version,
		Description: yp.Description,
		Author:      yp.Author,
		Tags:        yp.Tags,
		Includes:    yp.Includes,
		SourceFile:  b.sourcePath,
		Variables:   make(map[string]*ast.Variable),
		Rules:       make([]*ast.Rule, 0, len(yp.Rules)),
		Location:    b.loc(),
	}

	if yp.Created != "" {
		if t, err := time.Parse(time.RFC3339, yp.Created); err == nil {
			policy.Created = t
		}
	}
	if yp.Updated != "" {
		if t, err := time.Parse(time.RFC3339, yp.Updated); err == nil {
			policy.Updated = t
		}
	}

	for name, value := range yp.Variables {
		variable, err := b.buildVariable(name, value)
		if err != nil {
			b.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("invalid variable %q: %v", name, err), policy.Location)
			continue
		}
		policy.Variables[name] = variable
	}

	for i, yr := range yp.Rules {
		rule, err := b.buildRule(&yr)
		if err != nil {
			b.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("invalid rule at index %d: %v", i, err), policy.Location)
			continue
		}
		policy.Rules = append(policy.Rules, rule)
	}

	policy.Tests = make([]*ast.PolicyTest, 0, len(yp.Tests))
	for i, yt := range yp.Tests {
		test, err := b.buildTest(&yt)
		if err != nil {
			b.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("invalid test at index %d: %v", i, err), policy.Location)
			continue
		}
		policy.Tests = append(policy.Tests, test)
	}

	if b.errors.HasErrors() {
		return nil, b.errors
	}
	return policy, nil
}

func (b *builder) buildVariable(name string, value interface{}) (*ast.Variable, error) {
	valueNode, err := b.buildValue(value)
	if err != nil {
		return nil, err
	}
	return &ast.Variable{Name: name, Value: valueNode, Type: valueNode.Type, Location: b.loc()}, nil
}

func (b *builder) buildRule(yr *yamlRule) (*ast.Rule, error) {
	rule := &ast.Rule{
		Name:        yr.Name,
		Description: yr.Description,
		Enabled:     true,
		Priority:    yr.Priority,
		Actions:     make([]*ast.Action, 0, len(yr.Actions)),
		Location:    b.loc(),
	}

	if yr.Enabled != nil {
		rule.Enabled = *yr.Enabled
	}

	if yr.Conditions != nil {
		cond, err := b.buildConditions(yr.Conditions)
		if err != nil {
			return nil, fmt.Errorf("invalid conditions: %w", err)
		}
		rule.Conditions = cond
	}

	for i, ya := range yr.Actions {
		action, err := b.buildAction(ya)
		if err != nil {
			return nil, fmt.Errorf("invalid action at index %d: %w", i, err)
		}
		rule.Actions = append(rule.Actions, action)
	}

	return rule, nil
}

// buildConditions accepts either a single condition map or an array of
// conditions (implicit AND).
func (b *builder) buildConditions(cond interface{}) (*ast.ConditionNode, error) {
	switch v := cond.(type) {
	case map[string]interface{}:
		return b.buildConditionMap(v)
	case []interface{}:
		return b.buildConditionArray(v)
	default:
		return nil, fmt.Errorf("invalid condition type: %T", cond)
	}
}

func (b *builder) buildConditionMap(m map[string]interface{}) (*ast.ConditionNode, error) {
	if children, ok := m["all"]; ok {
		return b.buildLogicalCondition(ast.ConditionTypeAll, children)
	}
	if children, ok := m["any"]; ok {
		return b.buildLogicalCondition(ast.ConditionTypeAny, children)
	}
	if children, ok := m["not"]; ok {
		return b.buildLogicalCondition(ast.ConditionTypeNot, children)
	}
	if fn, ok := m["function"]; ok {
		return b.buildFunctionCondition(fn, m)
	}
	return b.buildSimpleCondition(m)
}

func (b *builder) buildSimpleCondition(m map[string]interface{}) (*ast.ConditionNode, error) {
	field, ok := m["field"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'field'")
	}
	operatorStr, ok := m["operator"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'operator'")
	}

	valueNode, err := b.buildValue(m["value"])
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	return &ast.ConditionNode{
		Type:     ast.ConditionTypeSimple,
		Field:    field,
		Operator: ast.Operator(operatorStr),
		Value:    valueNode,
		Location: b.loc(),
	}, nil
}

func (b *builder) buildLogicalCondition(condType ast.ConditionType, children interface{}) (*ast.ConditionNode, error) {
	childArray, ok := children.([]interface{})
	if !ok {
		return nil, fmt.Errorf("logical operator must have an array of children")
	}

	childNodes := make([]*ast.ConditionNode, 0, len(childArray))
	for i, child := range childArray {
		childNode, err := b.buildConditions(child)
		if err != nil {
			return nil, fmt.Errorf("invalid child condition at index %d: %w", i, err)
		}
		childNodes = append(childNodes, childNode)
	}

	return &ast.ConditionNode{Type: condType, Children: childNodes, Location: b.loc()}, nil
}

func (b *builder) buildFunctionCondition(fn interface{}, m map[string]interface{}) (*ast.ConditionNode, error) {
	fnName, ok := fn.(string)
	if !ok {
		return nil, fmt.Errorf("function name must be a string")
	}

	var args []*ast.ValueNode
	if argsRaw, ok := m["args"]; ok {
		argsArray, ok := argsRaw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("function args must be an array")
		}
		args = make([]*ast.ValueNode, 0, len(argsArray))
		for i, arg := range argsArray {
			argNode, err := b.buildValue(arg)
			if err != nil {
				return nil, fmt.Errorf("invalid argument at index %d: %w", i, err)
			}
			args = append(args, argNode)
		}
	}

	return &ast.ConditionNode{Type: ast.ConditionTypeFunction, Function: fnName, Args: args, Location: b.loc()}, nil
}

func (b *builder) buildConditionArray(arr []interface{}) (*ast.ConditionNode, error) {
	if len(arr) == 0 {
		return nil, fmt.Errorf("empty condition array")
	}
	if len(arr) == 1 {
		return b.buildConditions(arr[0])
	}

	children := make([]*ast.ConditionNode, 0, len(arr))
	for i, cond := range arr {
		childNode, err := b.buildConditions(cond)
		if err != nil {
			return nil, fmt.Errorf("invalid condition at index %d: %w", i, err)
		}
		children = append(children, childNode)
	}

	return &ast.ConditionNode{Type: ast.ConditionTypeAll, Children: children, Location: b.loc()}, nil
}

func (b *builder) buildAction(m map[string]interface{}) (*ast.Action, error) {
	actionTypeStr, ok := m["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid action 'type'")
	}

	action := &ast.Action{
		Type:       ast.ActionType(actionTypeStr),
		Parameters: make(map[string]*ast.ValueNode),
		Location:   b.loc(),
	}

	for key, value := range m {
		if key == "type" {
			continue
		}
		valueNode, err := b.buildValue(value)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter %q: %w", key, err)
		}
		action.Parameters[key] = valueNode
	}

	return action, nil
}

func (b *builder) buildValue(value interface{}) (*ast.ValueNode, error) {
	if value == nil {
		return &ast.ValueNode{Type: ast.ValueTypeNull, Location: b.loc()}, nil
	}

	switch v := value.(type) {
	case string:
		if name, ok := variableReference(v); ok {
			return &ast.ValueNode{Type: ast.ValueTypeVariable, Value: v, VariableName: name, Location: b.loc()}, nil
		}
		return &ast.ValueNode{Type: ast.ValueTypeString, Value: v, Location: b.loc()}, nil

	case int:
		return &ast.ValueNode{Type: ast.ValueTypeNumber, Value: float64(v), Location: b.loc()}, nil
	case int64:
		return &ast.ValueNode{Type: ast.ValueTypeNumber, Value: float64(v), Location: b.loc()}, nil
	case float64:
		return &ast.ValueNode{Type: ast.ValueTypeNumber, Value: v, Location: b.loc()}, nil

	case bool:
		return &ast.ValueNode{Type: ast.ValueTypeBoolean, Value: v, Location: b.loc()}, nil

	case []interface{}:
		return &ast.ValueNode{Type: ast.ValueTypeArray, Value: v, Location: b.loc()}, nil

	case map[string]interface{}:
		return &ast.ValueNode{Type: ast.ValueTypeObject, Value: v, Location: b.loc()}, nil

	default:
		return nil, fmt.Errorf("unsupported value type: %T", value)
	}
}

// variableReference reports whether s has the shape "{{ variables.name }}"
// and, if so, returns the bare variable name.
func variableReference(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{{") || !strings.HasSuffix(trimmed, "}}") {
		return "", false
	}
	inner := strings.TrimSpace(trimmed[2 : len(trimmed)-2])
	name := strings.TrimPrefix(inner, "variables.")
	return name, true
}

func (b *builder) buildTest(yt *yamlTest) (*ast.PolicyTest, error) {
	test := &ast.PolicyTest{
		Name:        yt.Name,
		Description: yt.Description,
		Asset:       yt.Asset,
		Expected: ast.TestExpectation{
			Action:      yt.Expected.Action,
			RuleMatches: yt.Expected.RuleMatches,
			Fields:      yt.Expected.Fields,
			Error:       yt.Expected.Error,
			ErrorMsg:    yt.Expected.ErrorMsg,
		},
		Location: b.loc(),
	}

	if test.Name == "" {
		return nil, fmt.Errorf("test name is required")
	}
	if test.Asset == nil {
		return nil, fmt.Errorf("test asset is required")
	}
	if test.Expected.Action == "" {
		return nil, fmt.Errorf("test expected action is required")
	}

	return test, nil
}

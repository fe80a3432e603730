package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// Matcher evaluates a policy's condition trees against an asset's fields.
type Matcher struct {
	policy *ast.Policy
}

func NewMatcher(policy *ast.Policy) *Matcher {
	return &Matcher{policy: policy}
}

// Match evaluates cond against asset, resolving any variable references
// through the owning policy.
func (m *Matcher) Match(cond *ast.ConditionNode, asset Asset) (bool, error) {
	switch cond.Type {
	case ast.ConditionTypeSimple:
		return m.matchSimple(cond, asset)
	case ast.ConditionTypeAll:
		for _, child := range cond.Children {
			ok, err := m.Match(child, asset)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case ast.ConditionTypeAny:
		for _, child := range cond.Children {
			ok, err := m.Match(child, asset)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case ast.ConditionTypeNot:
		if len(cond.Children) != 1 {
			return false, fmt.Errorf("not condition must have exactly one child, got %d", len(cond.Children))
		}
		ok, err := m.Match(cond.Children[0], asset)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case ast.ConditionTypeFunction:
		return m.matchFunction(cond, asset)
	default:
		return false, fmt.Errorf("unknown condition type: %q", cond.Type)
	}
}

func (m *Matcher) matchSimple(cond *ast.ConditionNode, asset Asset) (bool, error) {
	fieldVal := asset.Field(cond.Field)
	wantVal, err := m.resolveValue(cond.Value)
	if err != nil {
		return false, err
	}
	return compare(fieldVal, cond.Operator, wantVal)
}

func (m *Matcher) resolveValue(v *ast.ValueNode) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	if v.Type != ast.ValueTypeVariable {
		return v.Value, nil
	}
	variable := m.policy.GetVariable(v.VariableName)
	if variable == nil {
		return nil, fmt.Errorf("undefined variable %q", v.VariableName)
	}
	return m.resolveValue(variable.Value)
}

func (m *Matcher) matchFunction(cond *ast.ConditionNode, asset Asset) (bool, error) {
	args := make([]interface{}, len(cond.Args))
	for i, a := range cond.Args {
		v, err := m.resolveValue(a)
		if err != nil {
			return false, err
		}
		args[i] = v
	}

	switch cond.Function {
	case "has_geo_anomaly":
		country, _ := asset.Field("geo_country").(string)
		want, _ := args[0].(string)
		return country != "" && country != want, nil

	case "has_known_indicator":
		indicators, _ := asset.Field("indicators").([]string)
		want, _ := args[0].(string)
		for _, ind := range indicators {
			if ind == want {
				return true, nil
			}
		}
		return false, nil

	case "matches_cidr":
		ip, _ := asset.Field(fmt.Sprint(args[0])).(string)
		prefix, _ := args[1].(string)
		return strings.HasPrefix(ip, strings.TrimSuffix(prefix, "*")), nil

	case "rate_exceeds":
		field, _ := args[0].(string)
		limit, _ := args[1].(float64)
		rate, _ := asset.Field(field).(float64)
		return rate > limit, nil

	case "in_allowlist":
		field, _ := args[0].(string)
		list, _ := args[1].([]interface{})
		val := fmt.Sprint(asset.Field(field))
		for _, item := range list {
			if fmt.Sprint(item) == val {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown function %q", cond.Function)
	}
}

func compare(fieldVal interface{}, op ast.Operator, wantVal interface{}) (bool, error) {
	switch op {
	case ast.OperatorEqual:
		return fmt.Sprint(fieldVal) == fmt.Sprint(wantVal), nil
	case ast.OperatorNotEqual:
		return fmt.Sprint(fieldVal) != fmt.Sprint(wantVal), nil
	case ast.OperatorLessThan, ast.OperatorGreaterThan, ast.OperatorLessEqual, ast.OperatorGreaterEqual:
		return compareNumeric(fieldVal, op, wantVal)
	case ast.OperatorContains:
		return strings.Contains(fmt.Sprint(fieldVal), fmt.Sprint(wantVal)), nil
	case ast.OperatorStartsWith:
		return strings.HasPrefix(fmt.Sprint(fieldVal), fmt.Sprint(wantVal)), nil
	case ast.OperatorEndsWith:
		return strings.HasSuffix(fmt.Sprint(fieldVal), fmt.Sprint(wantVal)), nil
	case ast.OperatorMatches:
		re, err := regexp.Compile(fmt.Sprint(wantVal))
		if err != nil {
			return false, fmt.Errorf("invalid regex %q: %w", wantVal, err)
		}
		return re.MatchString(fmt.Sprint(fieldVal)), nil
	case ast.OperatorIn:
		return inSlice(fieldVal, wantVal), nil
	case ast.OperatorNotIn:
		return !inSlice(fieldVal, wantVal), nil
	default:
		return false, fmt.Errorf("unsupported operator: %q", op)
	}
}

func compareNumeric(fieldVal interface{}, op ast.Operator, wantVal interface{}) (bool, error) {
	a, ok := toFloat(fieldVal)
	if !ok {
		return false, fmt.Errorf("field value %v is not numeric", fieldVal)
	}
	b, ok := toFloat(wantVal)
	if !ok {
		return false, fmt.Errorf("comparison value %v is not numeric", wantVal)
	}

	switch op {
	case ast.OperatorLessThan:
		return a < b, nil
	case ast.OperatorGreaterThan:
		return a > b, nil
	case ast.OperatorLessEqual:
		return a <= b, nil
	case ast.OperatorGreaterEqual:
		return a >= b, nil
	default:
		return false, fmt.Errorf("not a numeric operator: %q", op)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func inSlice(fieldVal, wantVal interface{}) bool {
	items, ok := wantVal.([]interface{})
	if !ok {
		return false
	}
	for _, item := range items {
		if fmt.Sprint(item) == fmt.Sprint(fieldVal) {
			return true
		}
	}
	return false
}

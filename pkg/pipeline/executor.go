package pipeline

import (
	"fmt"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// Executor applies a matched rule's actions to a Decision being built for
// one asset.
type Executor struct {
	matcher *Matcher
}

func NewExecutor(matcher *Matcher) *Executor {
	return &Executor{matcher: matcher}
}

// Execute applies action's effect to decision and returns a short summary
// for the "[asset] action <type>: <summary>" trace line.
func (e *Executor) Execute(action *ast.Action, asset Asset, decision *Decision) (string, error) {
	switch action.Type {
	case ast.ActionTypeAllow:
		decision.Allowed = true
		return "allowed", nil

	case ast.ActionTypeBlock:
		decision.Blocked = true
		decision.Allowed = false
		decision.Reason = action.GetStringParameter("reason")
		return fmt.Sprintf("blocked: %s", decision.Reason), nil

	case ast.ActionTypeEmit:
		for key, val := range action.Parameters {
			resolved, err := e.matcher.resolveValue(val)
			if err != nil {
				return "", err
			}
			decision.Fields[key] = resolved
		}
		return "emitted fields", nil

	case ast.ActionTypeTag:
		key := action.GetStringParameter("name")
		if key == "" {
			return "", fmt.Errorf("tag action requires a 'name' parameter")
		}
		value := action.GetStringParameter("value")
		if value == "" {
			value = "true"
		}
		decision.Tags[key] = value
		return fmt.Sprintf("tagged %s=%s", key, value), nil

	case ast.ActionTypeRoute:
		target := action.GetStringParameter("target")
		if target == "" {
			return "", fmt.Errorf("route action requires a 'target' parameter")
		}
		decision.Routes = append(decision.Routes, target)
		return fmt.Sprintf("routed to %s", target), nil

	case ast.ActionTypeAlert:
		message := action.GetStringParameter("message")
		decision.Alerts = append(decision.Alerts, message)
		return fmt.Sprintf("alerted: %s", message), nil

	case ast.ActionTypeEnrich:
		field := action.GetStringParameter("field")
		if field == "" {
			return "", fmt.Errorf("enrich action requires a 'field' parameter")
		}
		value, err := e.matcher.resolveValue(action.GetParameter("value"))
		if err != nil {
			return "", err
		}
		decision.Fields[field] = value
		return fmt.Sprintf("enriched %s", field), nil

	case ast.ActionTypeRateLimit:
		limit := action.GetNumberParameter("limit")
		return fmt.Sprintf("rate limit checked: limit=%v", limit), nil

	default:
		return "", fmt.Errorf("unknown action type: %q", action.Type)
	}
}

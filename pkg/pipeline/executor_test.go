package pipeline

import (
	"strings"
	"testing"

	"sentinel/policyrtd/pkg/policylang/ast"
)

func TestExecutorBlockSetsReasonAndClearsAllowed(t *testing.T) {
	e := NewExecutor(NewMatcher(&ast.Policy{}))
	d := newDecision("a")
	d.Allowed = true

	action := &ast.Action{Type: ast.ActionTypeBlock, Parameters: map[string]*ast.ValueNode{
		"reason": {Type: ast.ValueTypeString, Value: "matched blocklist"},
	}}

	summary, err := e.Execute(action, Asset{ID: "a"}, d)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !d.Blocked || d.Allowed {
		t.Errorf("Blocked=%v Allowed=%v, want true/false", d.Blocked, d.Allowed)
	}
	if d.Reason != "matched blocklist" {
		t.Errorf("Reason = %q", d.Reason)
	}
	if !strings.Contains(summary, "matched blocklist") {
		t.Errorf("summary = %q", summary)
	}
}

func TestExecutorTagDefaultsValueToTrue(t *testing.T) {
	e := NewExecutor(NewMatcher(&ast.Policy{}))
	d := newDecision("a")

	action := &ast.Action{Type: ast.ActionTypeTag, Parameters: map[string]*ast.ValueNode{
		"name": {Type: ast.ValueTypeString, Value: "exfil-suspect"},
	}}

	if _, err := e.Execute(action, Asset{ID: "a"}, d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if d.Tags["exfil-suspect"] != "true" {
		t.Errorf("Tags = %v", d.Tags)
	}
}

func TestExecutorTagMissingNameErrors(t *testing.T) {
	e := NewExecutor(NewMatcher(&ast.Policy{}))
	d := newDecision("a")

	action := &ast.Action{Type: ast.ActionTypeTag}
	if _, err := e.Execute(action, Asset{ID: "a"}, d); err == nil {
		t.Fatal("expected an error for a tag action missing 'name'")
	}
}

func TestExecutorRouteAppendsTarget(t *testing.T) {
	e := NewExecutor(NewMatcher(&ast.Policy{}))
	d := newDecision("a")

	action := &ast.Action{Type: ast.ActionTypeRoute, Parameters: map[string]*ast.ValueNode{
		"target": {Type: ast.ValueTypeString, Value: "quarantine"},
	}}
	if _, err := e.Execute(action, Asset{ID: "a"}, d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(d.Routes) != 1 || d.Routes[0] != "quarantine" {
		t.Errorf("Routes = %v", d.Routes)
	}
}

func TestExecutorEmitMergesResolvedFields(t *testing.T) {
	policy := &ast.Policy{
		Variables: map[string]*ast.Variable{
			"region": {Name: "region", Value: &ast.ValueNode{Type: ast.ValueTypeString, Value: "us-east-1"}},
		},
	}
	e := NewExecutor(NewMatcher(policy))
	d := newDecision("a")

	action := &ast.Action{Type: ast.ActionTypeEmit, Parameters: map[string]*ast.ValueNode{
		"region": {Type: ast.ValueTypeVariable, VariableName: "region"},
	}}
	if _, err := e.Execute(action, Asset{ID: "a"}, d); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if d.Fields["region"] != "us-east-1" {
		t.Errorf("Fields = %v", d.Fields)
	}
}

func TestExecutorUnknownActionType(t *testing.T) {
	e := NewExecutor(NewMatcher(&ast.Policy{}))
	d := newDecision("a")

	action := &ast.Action{Type: ast.ActionType("noop")}
	if _, err := e.Execute(action, Asset{ID: "a"}, d); err == nil {
		t.Fatal("expected an error for an unknown action type")
	}
}

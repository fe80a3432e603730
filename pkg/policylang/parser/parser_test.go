package parser

import (
	"os"
	"testing"

	"sentinel/policyrtd/pkg/policylang/ast"
)

const samplePolicy = `
spec_version: "1.0"
name: block-exfil-attempts
version: "1.0.0"
description: blocks hosts exfiltrating data to unknown destinations
variables:
  max_bytes: 1000000
rules:
  - name: large-outbound-transfer
    conditions:
      all:
        - field: bytes_out
          operator: ">"
          value: "{{ variables.max_bytes }}"
        - function: has_known_indicator
          args:
            - "c2-beacon"
    actions:
      - type: block
        reason: "outbound transfer exceeds threshold"
      - type: tag
        name: "exfil-suspect"
`

func TestParseBytesHappyPath(t *testing.T) {
	p := NewParser()
	policy, err := p.ParseBytes([]byte(samplePolicy), "sample.yaml")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	if policy.Name != "block-exfil-attempts" {
		t.Errorf("Name = %q", policy.Name)
	}
	if policy.RuleCount() != 1 {
		t.Fatalf("RuleCount() = %d, want 1", policy.RuleCount())
	}

	rule := policy.Rules[0]
	if rule.Name != "large-outbound-transfer" {
		t.Errorf("rule name = %q", rule.Name)
	}
	if !rule.Enabled {
		t.Error("expected rule to default to enabled")
	}
	if rule.Conditions.Type != ast.ConditionTypeAll {
		t.Fatalf("Conditions.Type = %v, want all", rule.Conditions.Type)
	}
	if len(rule.Conditions.Children) != 2 {
		t.Fatalf("len(Children) = %d, want 2", len(rule.Conditions.Children))
	}

	simple := rule.Conditions.Children[0]
	if simple.Field != "bytes_out" || simple.Operator != ast.OperatorGreaterThan {
		t.Errorf("simple condition = %+v", simple)
	}
	if simple.Value.Type != ast.ValueTypeVariable || simple.Value.VariableName != "max_bytes" {
		t.Errorf("simple condition value = %+v", simple.Value)
	}

	fn := rule.Conditions.Children[1]
	if fn.Function != "has_known_indicator" || len(fn.Args) != 1 {
		t.Errorf("function condition = %+v", fn)
	}

	if len(rule.Actions) != 2 {
		t.Fatalf("len(Actions) = %d, want 2", len(rule.Actions))
	}
	if rule.Actions[0].Type != ast.ActionTypeBlock {
		t.Errorf("Actions[0].Type = %q", rule.Actions[0].Type)
	}
	if rule.Actions[0].GetStringParameter("reason") != "outbound transfer exceeds threshold" {
		t.Errorf("reason parameter = %q", rule.Actions[0].GetStringParameter("reason"))
	}
}

func TestParseBytesActionMissingTypeIsStructuralError(t *testing.T) {
	p := NewParser()
	_, err := p.ParseBytes([]byte(`
spec_version: "1.0"
name: x
version: "1.0.0"
rules:
  - name: broken
    conditions:
      field: severity
      operator: "=="
      value: "high"
    actions:
      - reason: "missing its type field"
`), "broken.yaml")
	if err == nil {
		t.Fatal("expected an error for an action with no 'type' field")
	}
}

func TestParseBytesRejectsOversizedInput(t *testing.T) {
	p := NewParser().WithMaxFileSize(8)
	_, err := p.ParseBytes([]byte(samplePolicy), "sample.yaml")
	if err == nil {
		t.Fatal("expected an IO error for input exceeding the configured max size")
	}
}

func TestParseMultiMergesVariablesAndRules(t *testing.T) {
	dir := t.TempDir()
	base := dir + "/base.yaml"
	extra := dir + "/extra.yaml"

	writeFile(t, base, `
spec_version: "1.0"
name: base-policy
version: "1.0.0"
variables:
  threshold: 10
rules:
  - name: base-rule
    conditions:
      field: severity
      operator: "=="
      value: "high"
    actions:
      - type: tag
        name: "base"
`)
	writeFile(t, extra, `
spec_version: "1.0"
name: extra-policy
version: "1.0.0"
variables:
  threshold: 20
rules:
  - name: extra-rule
    conditions:
      field: severity
      operator: "=="
      value: "critical"
    actions:
      - type: block
`)

	p := NewParser()
	policy, err := p.ParseMulti([]string{base, extra})
	if err != nil {
		t.Fatalf("ParseMulti: %v", err)
	}

	if policy.Name != "base-policy" {
		t.Errorf("Name = %q, want metadata from the first file", policy.Name)
	}
	if len(policy.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(policy.Rules))
	}
	if policy.Variables["threshold"].Value.Value.(float64) != 20 {

		t.Errorf("threshold = %v, want the later file's value to win", policy.Variables["threshold"].Value.Value)
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

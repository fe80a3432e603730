package ast

import "time"

// Policy is the root AST node: a named, versioned set of rules a Builder
// compiles into an executable pipeline for one policy id.
type Policy struct {
	SpecVersion string
	Name        string
	Version     string
	Description string
	Author      string
	Created     time.Time
	Updated     time.Time
	Tags        []string

	Variables map[string]*Variable
	Rules     []*Rule
	Includes  []string
	Tests     []*PolicyTest

	SourceFile string
	Location   Location
}

// Variable is a named, reusable value a policy's conditions and actions
// may reference instead of repeating a literal.
type Variable struct {
	Name     string
	Value    *ValueNode
	Type     ValueType
	Location Location
}

func (p *Policy) GetVariable(name string) *Variable {
	return p.Variables[name]
}

func (p *Policy) HasVariable(name string) bool {
	_, ok := p.Variables[name]
	return ok
}

func (p *Policy) GetRule(name string) *Rule {
	for _, rule := range p.Rules {
		if rule.Name == name {
			return rule
		}
	}
	return nil
}

func (p *Policy) HasRule(name string) bool {
	return p.GetRule(name) != nil
}

func (p *Policy) EnabledRules() []*Rule {
	var enabled []*Rule
	for _, rule := range p.Rules {
		if rule.IsEnabled() {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

func (p *Policy) RuleCount() int {
	return len(p.Rules)
}

func (p *Policy) EnabledRuleCount() int {
	return len(p.EnabledRules())
}

// PolicyTest is a fixture bundled with a policy: a sample asset plus the
// outcome a correct compilation must produce for it.
type PolicyTest struct {
	Name        string
	Description string
	Asset       map[string]interface{}
	Expected    TestExpectation
	Location    Location
}

// TestExpectation is the outcome a PolicyTest asserts.
type TestExpectation struct {
	Action      string
	RuleMatches []string
	Fields      map[string]interface{}
	Error       bool
	ErrorMsg    string
}

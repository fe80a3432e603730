package parser

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlPolicy is the intermediate structure decoded straight from a policy
// file, before it is lowered to the AST.
type yamlPolicy struct {
	SpecVersion string                 `yaml:"spec_version"`
	Name        string                 `yaml:"name"`
	Version     string                 `yaml:"version"`
	Description string                 `yaml:"description"`
	Author      string                 `yaml:"author"`
	Created     string                 `yaml:"created"`
	Updated     string                 `yaml:"updated"`
	Tags        []string               `yaml:"tags"`
	Variables   map[string]interface{} `yaml:"variables"`
	Rules       []yamlRule             `yaml:"rules"`
	Includes    []string               `yaml:"includes"`
	Tests       []yamlTest             `yaml:"tests"`
}

type yamlRule struct {
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Enabled     *bool                    `yaml:"enabled"`
	Conditions  interface{}              `yaml:"conditions"`
	Actions     []map[string]interface{} `yaml:"actions"`
	Priority    int                      `yaml:"priority"`
}

type yamlTest struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description"`
	Asset       map[string]interface{} `yaml:"asset"`
	Expected    yamlTestExpectation    `yaml:"expected"`
}

type yamlTestExpectation struct {
	Action      string                 `yaml:"action"`
	RuleMatches []string               `yaml:"rule_matches"`
	Fields      map[string]interface{} `yaml:"fields"`
	Error       bool                   `yaml:"error"`
	ErrorMsg    string                 `yaml:"error_msg"`
}

func parseYAMLFile(path string) (*yamlPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseYAMLBytes(data)
}

func parseYAMLBytes(data []byte) (*yamlPolicy, error) {
	var policy yamlPolicy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return nil, err
	}
	return &policy, nil
}

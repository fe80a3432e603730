package validator

import (
	"fmt"
	"regexp"

	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
)

var (
	semverPattern     = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(-[a-zA-Z0-9.-]+)?(\+[a-zA-Z0-9.-]+)?$`)
	kebabCasePattern  = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
	identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

	supportedSpecVersions = map[string]bool{"1.0": true}
)

// StructuralValidator checks required fields, naming, and schema shape,
// without reasoning about what any field or variable actually refers to.
type StructuralValidator struct {
	errors *policyerrors.ErrorList
}

func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{errors: policyerrors.NewErrorList()}
}

func (v *StructuralValidator) Validate(policy *ast.Policy) error {
	v.errors = policyerrors.NewErrorList()

	v.validateMetadata(policy)
	v.validateVariables(policy)
	v.validateRules(policy)

	return v.errors.ToError()
}

func (v *StructuralValidator) validateMetadata(policy *ast.Policy) {
	if policy.SpecVersion == "" {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			"missing required field 'spec_version'", policy.Location, `add spec_version: "1.0"`)
	} else if !supportedSpecVersions[policy.SpecVersion] {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			fmt.Sprintf("unsupported spec_version %q", policy.SpecVersion), policy.Location, "supported versions: 1.0")
	}

	if policy.Name == "" {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			"missing required field 'name'", policy.Location, `add name: "my-policy"`)
	} else if !kebabCasePattern.MatchString(policy.Name) {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			fmt.Sprintf("policy name %q must be kebab-case", policy.Name), policy.Location, "example: 'block-exfil-attempts'")
	}

	if policy.Version == "" {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			"missing required field 'version'", policy.Location, `add version: "1.0.0"`)
	} else if !semverPattern.MatchString(policy.Version) {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			fmt.Sprintf("policy version %q must follow semantic versioning", policy.Version), policy.Location, "example: '1.0.0'")
	}

	if len(policy.Rules) == 0 {
		v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
			"policy must have at least one rule", policy.Location, "add a 'rules' section with at least one rule")
	}
}

func (v *StructuralValidator) validateVariables(policy *ast.Policy) {
	for name, variable := range policy.Variables {
		if !identifierPattern.MatchString(name) {
			v.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("invalid variable name %q (must be alphanumeric with underscores)", name), variable.Location)
		}
		if variable.Value.Type == ast.ValueTypeNull {
			v.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("variable %q cannot have a null value", name), variable.Location)
		}
	}
}

func (v *StructuralValidator) validateRules(policy *ast.Policy) {
	seen := make(map[string]bool)
	for i, rule := range policy.Rules {
		if rule.Name == "" {
			v.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("rule at index %d is missing a name", i), rule.Location)
			continue
		}
		if seen[rule.Name] {
			v.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("duplicate rule name %q", rule.Name), rule.Location)
		}
		seen[rule.Name] = true

		if !rule.HasConditions() {
			v.errors.AddErrorWithSuggestion(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("rule %q has no conditions", rule.Name), rule.Location,
				"every rule must declare a 'conditions' block, even a trivial one")
		}
		if !rule.HasActions() {
			v.errors.AddError(policyerrors.ErrorTypeStructural,
				fmt.Sprintf("rule %q has no actions", rule.Name), rule.Location)
		}
	}
}

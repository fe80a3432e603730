package validator

import (
	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
)

// Validator orchestrates the structural and semantic validation passes.
type Validator struct {
	structural *StructuralValidator
	semantic   *SemanticValidator
}

func NewValidator() *Validator {
	return &Validator{
		structural: NewStructuralValidator(),
		semantic:   NewSemanticValidator(),
	}
}

// Validate runs structural validation, then semantic validation if and
// only if structural validation found nothing wrong, and returns every
// error accumulated.
func (v *Validator) Validate(policy *ast.Policy) error {
	errs := policyerrors.NewErrorList()

	if err := v.structural.Validate(policy); err != nil {
		if list, ok := err.(*policyerrors.ErrorList); ok {
			errs.Errors = append(errs.Errors, list.Errors...)
		}
	}

	if !errs.HasErrorType(policyerrors.ErrorTypeStructural) {
		if err := v.semantic.Validate(policy); err != nil {
			if list, ok := err.(*policyerrors.ErrorList); ok {
				errs.Errors = append(errs.Errors, list.Errors...)
			}
		}
	}

	return errs.ToError()
}

func (v *Validator) ValidateStructural(policy *ast.Policy) error {
	return v.structural.Validate(policy)
}

func (v *Validator) ValidateSemantic(policy *ast.Policy) error {
	return v.semantic.Validate(policy)
}

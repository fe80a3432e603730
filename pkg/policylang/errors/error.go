package errors

import (
	"fmt"
	"strings"

	"sentinel/policyrtd/pkg/policylang/ast"
)

// ErrorType categorizes where in the pipeline an error was raised.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"
	ErrorTypeStructural ErrorType = "structural"
	ErrorTypeSemantic   ErrorType = "semantic"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeIO         ErrorType = "io"
)

// Error is a located, optionally-suggested policy error.
type Error struct {
	Type       ErrorType
	Message    string
	Location   ast.Location
	Context    string
	Suggestion string
}

func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// ErrorList accumulates errors across a parse or validation pass instead of
// failing on the first one.
type ErrorList struct {
	Errors []*Error
}

func NewErrorList() *ErrorList {
	return &ErrorList{Errors: make([]*Error, 0)}
}

func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{Type: errType, Message: message, Location: location})
}

func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location ast.Location, suggestion string) {
	el.Add(&Error{Type: errType, Message: message, Location: location, Suggestion: suggestion})
}

func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

func (el *ErrorList) Count() int {
	return len(el.Errors)
}

func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d error(s):\n\n", el.Count()))
	for i, err := range el.Errors {
		sb.WriteString(fmt.Sprintf("error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}

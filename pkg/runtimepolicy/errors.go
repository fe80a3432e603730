package runtimepolicy

import (
	"errors"
	"fmt"
)

// Sentinel errors for state-machine violations (spec §7 taxonomy).
var (
	// ErrAlreadyBuilt is returned by Build when the instance is already BUILT.
	ErrAlreadyBuilt = errors.New("already built")

	// ErrNotBuilt is returned by Ingest when the instance is still UNBUILT.
	ErrNotBuilt = errors.New("not built")
)

// AlreadyBuiltError indicates build was invoked on an instance already in
// state BUILT.
type AlreadyBuiltError struct {
	PolicyID string
}

func (e *AlreadyBuiltError) Error() string {
	return fmt.Sprintf("policy %q is already built", e.PolicyID)
}

func (e *AlreadyBuiltError) Unwrap() error {
	return ErrAlreadyBuilt
}

// NotBuiltError indicates ingest was invoked on an instance still UNBUILT.
type NotBuiltError struct {
	PolicyID string
}

func (e *NotBuiltError) Error() string {
	return fmt.Sprintf("policy %q is not built", e.PolicyID)
}

func (e *NotBuiltError) Unwrap() error {
	return ErrNotBuilt
}

// BuildFailureError wraps any error raised by the Builder or by
// constructing the Controller. The instance remains UNBUILT after this is
// returned; no subscribers are left wired.
type BuildFailureError struct {
	PolicyID string
	Cause    error
}

func (e *BuildFailureError) Error() string {
	return fmt.Sprintf("error building policy [%s]: %v", e.PolicyID, e.Cause)
}

func (e *BuildFailureError) Unwrap() error {
	return e.Cause
}

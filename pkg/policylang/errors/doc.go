// Package errors provides rich, located errors for parsing and validating
// asset policies: each carries a source location and, where useful, a
// suggested fix, so a misconfigured policy file points straight at the
// offending line instead of a bare Go error string.
package errors

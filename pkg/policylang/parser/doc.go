// Package parser turns asset policy YAML into a *ast.Policy.
//
// A policy file declares variables and rules; each rule's conditions test
// fields on an asset and its actions describe the trace lines and output
// fields to produce when those conditions hold. Parsing is purely
// structural: it does not evaluate anything against a real asset, and does
// not check that referenced variables or function names exist. Use
// package validator for that.
package parser

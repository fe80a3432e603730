// Package validator checks an asset policy AST for problems a parser alone
// cannot catch: missing required metadata, undefined variable references,
// cyclic variable definitions, and unknown action or function names. The
// operand types of a comparison are not checked.
//
// Validation runs in two passes. Structural validation checks the policy
// in isolation (required fields, naming, at least one rule). Semantic
// validation assumes structural validation passed and checks cross-
// references within the policy (variables, known functions, known action
// types). Running semantic validation over a structurally broken policy
// produces noisy, redundant errors, so Validator skips it when structural
// validation fails.
package validator

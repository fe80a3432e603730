// Package pipeline compiles an asset policy into a runnable
// runtimepolicy.PipelineExpression and drives it as a
// runtimepolicy.Controller: a small worker pool that evaluates each
// ingested asset against every enabled rule, emits one trace line per rule
// evaluated and one condition line per rule whose conditions were checked,
// and latches a pretty-printed decision as the policy's output.
//
// # Trace line shapes
//
// Every rule evaluation emits a verbose line:
//
//	[asset-id] evaluating rule <name>
//
// and, if the rule has conditions, a condition line immediately after:
//
//	[asset-id] [condition]: <matched=true|false> rule=<name>
//
// These are the two shapes runtimepolicy.Classify recognizes.
package pipeline

// Package ast defines the abstract syntax tree for the asset policy
// language: the declarative rule format a Builder compiles into a
// runtimepolicy.PipelineExpression.
//
// # Core types
//
// Policy is the root node: metadata plus a list of Rules, each gated by a
// ConditionNode tree and carrying one or more Actions to run when the
// conditions hold against an asset's current field values.
//
// # Structure
//
//	Policy
//	├── Variables (map[string]*Variable)
//	└── Rules ([]*Rule)
//	    ├── Conditions (*ConditionNode)
//	    │   ├── Simple (field, operator, value)
//	    │   ├── Logical (all/any/not with children)
//	    │   └── Function (named predicate with arguments)
//	    └── Actions ([]*Action)
//	        └── Parameters (map[string]*ValueNode)
//
// Nodes are built once by a parser and never mutated afterward; walk them
// with Walk and a Visitor for validation or analysis.
package ast

package ast

// ValueType is the type tag of a ValueNode. The language has no implicit
// coercion between types.
type ValueType string

const (
	ValueTypeString   ValueType = "string"
	ValueTypeNumber   ValueType = "number"
	ValueTypeBoolean  ValueType = "boolean"
	ValueTypeArray    ValueType = "array"
	ValueTypeObject   ValueType = "object"
	ValueTypeVariable ValueType = "variable"
	ValueTypeNull     ValueType = "null"
)

// ValueNode is a literal or a variable reference, used anywhere a policy
// needs a value: condition operands, action parameters, variable
// definitions.
type ValueNode struct {
	Type         ValueType
	Value        interface{}
	VariableName string
	Location     Location
}

// IsLiteral reports whether this node holds a literal rather than a
// variable reference.
func (v *ValueNode) IsLiteral() bool {
	return v.Type != ValueTypeVariable
}

// IsVariable reports whether this node references a policy variable.
func (v *ValueNode) IsVariable() bool {
	return v.Type == ValueTypeVariable
}

// String renders the node for diagnostics; it is not a serialization
// format.
func (v *ValueNode) String() string {
	switch v.Type {
	case ValueTypeVariable:
		return "{{ variables." + v.VariableName + " }}"
	case ValueTypeNull:
		return "null"
	default:
		if s, ok := v.Value.(string); ok {
			return s
		}
		return ""
	}
}

package ast

import "fmt"

// Location is the source position of an AST node within the policy file it
// was parsed from, used for error messages.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsValid reports whether the location carries usable file/line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}

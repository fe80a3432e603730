package pipeline

import "fmt"

// Asset is the event type this package feeds to
// runtimepolicy.RuntimePolicy.Ingest: a flat field bag plus the identifier
// that trace lines are tagged with.
type Asset struct {
	ID     string
	Fields map[string]interface{}
}

// Field returns the named field's value, or nil if it is absent.
func (a Asset) Field(name string) interface{} {
	return a.Fields[name]
}

func (a Asset) String() string {
	return fmt.Sprintf("asset(%s)", a.ID)
}

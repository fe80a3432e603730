package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how lint results and render payloads are printed.
type OutputFormat string

const (
	// FormatText prints lintResult entries as one findings block per file
	// (default; see lintOutputText).
	FormatText OutputFormat = "text"
	// FormatJSON marshals the []lintResult slice, or a session render's
	// {output, trace} pair, as indented JSON for CI consumption.
	FormatJSON OutputFormat = "json"
)

// Formatter formats a lint or render result for the terminal or a pipe.
type Formatter interface {
	Format(data interface{}) ([]byte, error)
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter is the fallback formatter: %v on whatever it's given.
// Real text rendering for lint output lives in lintOutputText, which walks
// the []lintResult directly to control per-file layout; TextFormatter only
// covers formats without a dedicated renderer.
type TextFormatter struct{}

func (f *TextFormatter) Format(data interface{}) ([]byte, error) {
	return []byte(fmt.Sprintf("%v\n", data)), nil
}

func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter marshals lint results or render payloads as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) Format(data interface{}) ([]byte, error) {
	if f.Indent {
		return json.MarshalIndent(data, "", "  ")
	}
	return json.Marshal(data)
}

func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// NewFormatter creates the formatter for the given format. JSON is always
// indented: lint output is consumed by humans piping CI logs as often as by
// machines, and indentation costs nothing at this size.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}

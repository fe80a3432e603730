package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"
)

type fakeLintResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
}

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "policies/deny-exfil.yaml: valid"

	output, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "policies/deny-exfil.yaml: valid\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestTextFormatterWriter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "policies/deny-exfil.yaml: valid"
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	expected := "policies/deny-exfil.yaml: valid\n"
	if buf.String() != expected {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), expected)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "single lint result",
			data:   fakeLintResult{File: "policies/deny-exfil.yaml", Valid: true},
			indent: false,
		},
		{
			name: "lint result slice with indent",
			data: []fakeLintResult{
				{File: "policies/deny-exfil.yaml", Valid: true},
				{File: "policies/broken.yaml", Valid: false},
			},
			indent: true,
		},
		{
			name: "session render payload",
			data: struct {
				Output string `json:"output"`
				Trace  string `json:"trace"`
			}{
				Output: `{"allow":true}`,
				Trace:  `{"decoder/d/0":"matched"}`,
			},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			var result interface{}
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONFormatterWriter(t *testing.T) {
	formatter := &JSONFormatter{Indent: true}
	data := []fakeLintResult{{File: "policies/deny-exfil.yaml", Valid: true}}
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	var result []fakeLintResult
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Errorf("FormatTo() produced invalid JSON: %v", err)
	}

	if len(result) != 1 || result[0].File != "policies/deny-exfil.yaml" {
		t.Errorf("FormatTo() = %v, want %v", result, data)
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{
			name:   "text formatter",
			format: FormatText,
			want:   "*cli.TextFormatter",
		},
		{
			name:   "json formatter",
			format: FormatJSON,
			want:   "*cli.JSONFormatter",
		},
		{
			name:   "default to text",
			format: "unknown",
			want:   "*cli.TextFormatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(tt.format)
			got := fmt.Sprintf("%T", formatter)
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

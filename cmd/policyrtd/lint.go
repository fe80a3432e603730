package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sentinel/policyrtd/pkg/cli"
	polerrors "sentinel/policyrtd/pkg/policylang/errors"
	"sentinel/policyrtd/pkg/policylang/parser"
	"sentinel/policyrtd/pkg/policylang/validator"
)

var lintFlags struct {
	file   string
	dir    string
	strict bool
	format string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate asset-language policy files",
	Long: `Validate asset-language policy files for syntax and semantic errors,
against the same parser and validator the Catalog uses, without loading
the policy into any store.

Examples:
  # Lint a single file
  policyrtd lint --file policies/deny-exfil.yaml

  # Lint a directory
  policyrtd lint --dir policies/

  # Strict mode (parser strict mode enabled)
  policyrtd lint --file policies/deny-exfil.yaml --strict

  # JSON output for CI
  policyrtd lint --file policies/deny-exfil.yaml --format json`,
	RunE: lintPolicies,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVarP(&lintFlags.file, "file", "f", "", "policy file to validate")
	lintCmd.Flags().StringVarP(&lintFlags.dir, "dir", "d", "", "directory of policy files")
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "enable the parser's strict mode")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

func lintPolicies(cmd *cobra.Command, args []string) error {
	if lintFlags.file == "" && lintFlags.dir == "" {
		return fmt.Errorf("either --file or --dir must be specified")
	}

	var files []string
	if lintFlags.file != "" {
		files = append(files, lintFlags.file)
	}
	if lintFlags.dir != "" {
		yamlMatches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yaml"))
		if err != nil {
			return fmt.Errorf("failed to list policy files: %w", err)
		}
		ymlMatches, err := filepath.Glob(filepath.Join(lintFlags.dir, "*.yml"))
		if err != nil {
			return fmt.Errorf("failed to list policy files: %w", err)
		}
		files = append(files, yamlMatches...)
		files = append(files, ymlMatches...)
	}

	if len(files) == 0 {
		return fmt.Errorf("no policy files found")
	}

	progress := cli.NewProgressReporter(os.Stderr)
	if len(files) > 1 && lintFlags.format != "json" {
		progress.Start(int64(len(files)))
	}

	results := make([]lintResult, 0, len(files))
	for i, file := range files {
		results = append(results, lintFile(file))
		if len(files) > 1 && lintFlags.format != "json" {
			progress.Update(int64(i + 1))
		}
	}
	if len(files) > 1 && lintFlags.format != "json" {
		progress.Finish()
	}

	if lintFlags.format == "json" {
		return lintOutputJSON(results)
	}
	return lintOutputText(results)
}

// lintResult is the per-file validation outcome.
type lintResult struct {
	File   string       `json:"file"`
	Valid  bool         `json:"valid"`
	Errors []lintFinding `json:"errors,omitempty"`
}

// lintFinding is a single, located policy error.
type lintFinding struct {
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func lintFile(path string) lintResult {
	result := lintResult{File: path, Valid: true}

	p := parser.NewParser()
	if lintFlags.strict {
		p.WithStrictMode(true)
	}

	policy, err := p.Parse(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, lintFindingsFromError(err)...)
		return result
	}

	if err := validator.NewValidator().Validate(policy); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, lintFindingsFromError(err)...)
	}

	return result
}

func lintFindingsFromError(err error) []lintFinding {
	if errList, ok := err.(*polerrors.ErrorList); ok {
		findings := make([]lintFinding, 0, len(errList.Errors))
		for _, e := range errList.Errors {
			findings = append(findings, lintFinding{
				Line:    e.Location.Line,
				Column:  e.Location.Column,
				Message: e.Message,
				Type:    string(e.Type),
			})
		}
		return findings
	}
	if polErr, ok := err.(*polerrors.Error); ok {
		return []lintFinding{{
			Line:    polErr.Location.Line,
			Column:  polErr.Location.Column,
			Message: polErr.Message,
			Type:    string(polErr.Type),
		}}
	}
	return []lintFinding{{Message: err.Error()}}
}

func lintOutputText(results []lintResult) error {
	totalErrors := 0
	failedFiles := 0

	for _, result := range results {
		fmt.Printf("Validating %s...\n", result.File)

		if len(result.Errors) == 0 {
			fmt.Println("  valid")
		} else {
			failedFiles++
		}
		for _, e := range result.Errors {
			fmt.Printf("  error: %s", e.Message)
			if e.Line > 0 {
				fmt.Printf(" (line %d", e.Line)
				if e.Column > 0 {
					fmt.Printf(", col %d", e.Column)
				}
				fmt.Print(")")
			}
			if e.Type != "" {
				fmt.Printf(" [%s]", e.Type)
			}
			fmt.Println()
			totalErrors++
		}
		fmt.Println()
	}

	fmt.Printf("Summary: %d error(s) across %d file(s)\n", totalErrors, len(results))

	if failedFiles > 0 {
		return cli.NewValidationError(failedFiles, len(results))
	}
	return nil
}

func lintOutputJSON(results []lintResult) error {
	return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results)
}

package parser

import (
	"fmt"
	"os"

	"sentinel/policyrtd/pkg/policylang/ast"
	policyerrors "sentinel/policyrtd/pkg/policylang/errors"
)

// Parser parses asset policy files into ASTs, applying a file size limit
// before handing off to YAML decoding.
type Parser struct {
	maxFileSize int64
	maxDepth    int
	strictMode  bool
}

// NewParser returns a Parser with a 10MB file size cap. The max depth
// (default 10) and strict mode settings are stored on the Parser but not
// consulted while parsing; condition nesting depth is not limited.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: 10 * 1024 * 1024,
		maxDepth:    10,
		strictMode:  false,
	}
}

func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

func (p *Parser) WithMaxDepth(depth int) *Parser {
	p.maxDepth = depth
	return p
}

func (p *Parser) WithStrictMode(strict bool) *Parser {
	p.strictMode = strict
	return p
}

// Parse reads and parses a policy file at path into an AST.
func (p *Parser) Parse(path string) (*ast.Policy, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, &policyerrors.Error{
			Type:     policyerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("failed to access file: %v", err),
			Location: ast.Location{File: path},
		}
	}

	if fileInfo.Size() > p.maxFileSize {
		return nil, &policyerrors.Error{
			Type:     policyerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("file size %d exceeds maximum %d bytes", fileInfo.Size(), p.maxFileSize),
			Location: ast.Location{File: path},
		}
	}

	yp, err := parseYAMLFile(path)
	if err != nil {
		return nil, &policyerrors.Error{
			Type:       policyerrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("yaml parsing failed: %v", err),
			Location:   ast.Location{File: path, Line: 1},
			Suggestion: "check YAML syntax (indentation, colons, quotes)",
		}
	}

	return newBuilder(path).buildPolicy(yp)
}

// ParseBytes parses policy YAML already in memory. sourcePath is only used
// for error locations.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ast.Policy, error) {
	if int64(len(data)) > p.maxFileSize {
		return nil, &policyerrors.Error{
			Type:     policyerrors.ErrorTypeIO,
			Message:  fmt.Sprintf("data size %d exceeds maximum %d bytes", len(data), p.maxFileSize),
			Location: ast.Location{File: sourcePath},
		}
	}

	yp, err := parseYAMLBytes(data)
	if err != nil {
		return nil, &policyerrors.Error{
			Type:       policyerrors.ErrorTypeSyntax,
			Message:    fmt.Sprintf("yaml parsing failed: %v", err),
			Location:   ast.Location{File: sourcePath, Line: 1, Column: 1},
			Suggestion: "check YAML syntax (indentation, colons, quotes)",
		}
	}

	return newBuilder(sourcePath).buildPolicy(yp)
}

// ParseMulti parses several policy files and merges them: the first file's
// metadata is kept, later files' variables override earlier ones by name,
// and rules are concatenated in file order. Used for layering a base
// policy with environment-specific overrides.
func (p *Parser) ParseMulti(paths []string) (*ast.Policy, error) {
	if len(paths) == 0 {
		return nil, &policyerrors.Error{Type: policyerrors.ErrorTypeIO, Message: "no policy files provided"}
	}

	policy, err := p.Parse(paths[0])
	if err != nil {
		return nil, err
	}

	for _, path := range paths[1:] {
		additional, err := p.Parse(path)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		for name, variable := range additional.Variables {
			policy.Variables[name] = variable
		}
		policy.Rules = append(policy.Rules, additional.Rules...)
	}

	return policy, nil
}

//go:build !cgo

package parse

import "context"

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{}
}

// IsAvailable returns whether parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Close is a no-op.
func (p *Parser) Close() {}

// Parse always fails with ErrNoCGO.
func (p *Parser) Parse(ctx context.Context, source []byte, dialect Dialect) (*Result, error) {
	return nil, ErrNoCGO
}

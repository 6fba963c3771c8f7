//go:build cgo

package parse

import (
	"context"
	"fmt"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	ftaerrors "fta/internal/errors"
)

// Parser wraps tree-sitter for the TypeScript family. A Parser is not safe for
// concurrent use; give each worker its own.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// IsAvailable returns whether parsing is available.
func IsAvailable() bool {
	return true
}

// Close releases the underlying tree-sitter parser.
func (p *Parser) Close() {
	if p != nil && p.parser != nil {
		p.parser.Close()
	}
}

// Parse parses source in the given dialect and lowers it into a syntax tree.
// Source the grammar cannot parse cleanly yields a PARSE_FAILED error wrapping
// ErrSyntax.
func (p *Parser) Parse(ctx context.Context, source []byte, dialect Dialect) (*Result, error) {
	p.parser.SetLanguage(getLanguage(dialect))
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		row, col := firstError(root)
		return nil, ftaerrors.New(ftaerrors.ParseFailed,
			fmt.Sprintf("%s parse failed at %d:%d", dialect, row, col), ErrSyntax)
	}

	l := &lowerer{source: source, unknown: make(map[string]struct{})}
	res := &Result{
		Tree:   l.lower(root),
		source: source,
	}
	res.Comments = l.comments
	for typ := range l.unknown {
		res.Unknown = append(res.Unknown, typ)
	}
	sort.Strings(res.Unknown)
	return res, nil
}

// getLanguage returns the tree-sitter Language for a dialect.
func getLanguage(dialect Dialect) *sitter.Language {
	if dialect == TSX {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}

// firstError returns the 1-based position of the first ERROR or missing node.
func firstError(root *sitter.Node) (row, col int) {
	var found *sitter.Node
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if found != nil || n == nil {
			return
		}
		if n.Type() == "ERROR" || n.IsMissing() {
			found = n
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)

	if found == nil {
		found = root
	}
	p := found.StartPoint()
	return int(p.Row) + 1, int(p.Column) + 1
}

// Package parse turns JavaScript and TypeScript source into syntax trees via
// tree-sitter, and counts the physical lines the score is based on.
package parse

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"fta/internal/syntax"
)

// Dialect selects the grammar a file is parsed with.
type Dialect string

const (
	TypeScript Dialect = "typescript"
	TSX        Dialect = "tsx"
)

// DialectFromPath picks TSX for .tsx and .jsx files and TypeScript for
// everything else. Plain JavaScript parses as TypeScript.
func DialectFromPath(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx", ".jsx":
		return TSX
	default:
		return TypeScript
	}
}

// Other returns the dialect tried when d fails.
func (d Dialect) Other() Dialect {
	if d == TSX {
		return TypeScript
	}
	return TSX
}

var (
	// ErrSyntax is wrapped by every parse failure caused by the source itself.
	ErrSyntax = errors.New("syntax error")

	// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
	ErrNoCGO = errors.New("parsing requires CGO (tree-sitter)")
)

// Span is a half-open byte range of the source.
type Span struct {
	Start, End int
}

// Result is one parsed compilation unit.
type Result struct {
	Tree *syntax.Node

	// Comments holds the byte range of every comment, in source order.
	Comments []Span

	// Unknown lists grammar node types that were lowered to syntax.Unknown.
	Unknown []string

	source []byte
}

// LineCount counts the unit's lines, with or without comment-only lines.
func (r *Result) LineCount(includeComments bool) int {
	return CountLines(r.source, r.Comments, includeComments)
}

// ParseWithFallback parses with the preferred dialect and, if that fails with
// a syntax error, once more with the other one. fellBack reports whether the
// returned result came from the second attempt.
func (p *Parser) ParseWithFallback(ctx context.Context, source []byte, preferred Dialect) (res *Result, fellBack bool, err error) {
	res, err = p.Parse(ctx, source, preferred)
	if err == nil || !errors.Is(err, ErrSyntax) {
		return res, false, err
	}

	res, retryErr := p.Parse(ctx, source, preferred.Other())
	if retryErr != nil {
		return nil, false, err
	}
	return res, true, nil
}

// CountLines counts the \n separated lines of source. Blank lines count; an
// empty segment after a trailing newline does not. Unless includeComments is
// set, a line whose non-blank content lies entirely inside comments is
// skipped.
func CountLines(source []byte, comments []Span, includeComments bool) int {
	if len(source) == 0 {
		return 0
	}

	var inComment []bool
	if !includeComments && len(comments) > 0 {
		inComment = make([]bool, len(source))
		for _, c := range comments {
			start, end := max(c.Start, 0), min(c.End, len(source))
			for i := start; i < end; i++ {
				inComment[i] = true
			}
		}
	}

	count := 0
	for start := 0; start < len(source); {
		end := start
		for end < len(source) && source[end] != '\n' {
			end++
		}
		if inComment == nil || !commentOnly(source, inComment, start, end) {
			count++
		}
		start = end + 1
	}
	return count
}

func commentOnly(source []byte, inComment []bool, start, end int) bool {
	// A blank line inside a block comment has only its newline covered.
	touched := end < len(source) && inComment[end]
	for i := start; i < end; i++ {
		switch {
		case inComment[i]:
			touched = true
		case !isSpace(source[i]):
			return false
		}
	}
	return touched
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\v' || b == '\f'
}

package metrics

import (
	"fmt"

	"fta/internal/syntax"
)

// Cyclomatic returns the file-level cyclomatic complexity: 1 plus one for
// every decision point anywhere in the tree, nested functions included.
func Cyclomatic(root *syntax.Node) int {
	complexity := 1
	syntax.Walk(root, func(n *syntax.Node) bool {
		if isDecision(n) {
			complexity++
		}
		return true
	})
	return complexity
}

// isDecision reports whether n adds an independent path. Like Classify it
// lists every kind and panics on one it does not know.
func isDecision(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.If, syntax.For, syntax.ForIn, syntax.While, syntax.DoWhile,
		syntax.Case, syntax.Catch, syntax.Ternary:
		return true

	case syntax.Binary:
		return isShortCircuit(n.Op)

	// a ||= b assigns only on one path.
	case syntax.Assign:
		return isLogicalAssign(n.Op)

	case syntax.Unknown, syntax.Group, syntax.Comment,
		syntax.Unary, syntax.Update, syntax.Call, syntax.TaggedTemplate,
		syntax.New, syntax.Sequence, syntax.Arrow, syntax.Await, syntax.Yield,
		syntax.Spread, syntax.Template, syntax.TemplateChunk, syntax.TemplateSubstitution,
		syntax.MetaProperty, syntax.NonNull, syntax.As, syntax.TypeAssertion,
		syntax.Member, syntax.Index,
		syntax.Function, syntax.Class, syntax.Method, syntax.Decorator,
		syntax.String, syntax.Number, syntax.Bool, syntax.Null, syntax.Regex, syntax.Identifier,
		syntax.Switch, syntax.Default, syntax.Keyword,
		syntax.TypeOperator, syntax.MappedType, syntax.IndexedAccess, syntax.QualifiedName,
		syntax.JSXElement, syntax.JSXExpression, syntax.JSXAttribute, syntax.JSXText:
		return false
	}

	panic(fmt.Sprintf("metrics: no decision rule for syntax kind %s", n.Kind))
}

func isShortCircuit(op string) bool {
	switch op {
	case "&&", "||", "??":
		return true
	}
	return false
}

func isLogicalAssign(op string) bool {
	switch op {
	case "&&=", "||=", "??=":
		return true
	}
	return false
}

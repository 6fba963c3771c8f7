package metrics

import (
	"fmt"
	"strings"

	"fta/internal/syntax"
)

// Operand classes used in Lexeme.Class.
const (
	classOp       = "op"
	classString   = "string"
	classNumber   = "number"
	classBool     = "bool"
	classNull     = "null"
	classRegex    = "regex"
	className     = "name"
	classTemplate = "template"
	classJSX      = "jsx"
)

// Classify returns the tokens the node itself contributes. Children are not
// inspected; they contribute their own tokens when the walker reaches them.
//
// Classify panics on a kind it does not list, so a kind added to the syntax
// package cannot silently contribute nothing.
func Classify(n *syntax.Node) []Token {
	switch n.Kind {
	case syntax.Unknown, syntax.Group, syntax.Comment, syntax.Template, syntax.Method:
		return nil

	case syntax.Binary, syntax.Unary, syntax.Assign, syntax.Update,
		syntax.Keyword, syntax.TypeOperator,
		syntax.JSXElement, syntax.JSXExpression, syntax.JSXAttribute:
		return operator(n.Op)

	case syntax.Call:
		return operator(opOr(n, "()"))
	case syntax.TaggedTemplate:
		return operator("tag`")
	case syntax.New:
		return operator("new")
	case syntax.Ternary:
		return operator("?:")
	case syntax.Sequence:
		if len(n.Children) < 2 {
			return nil
		}
		tokens := make([]Token, len(n.Children)-1)
		for i := range tokens {
			tokens[i] = opToken(",")
		}
		return tokens
	case syntax.Arrow:
		return operator("=>")
	case syntax.Await:
		return operator("await")
	case syntax.Yield:
		return operator(opOr(n, "yield"))
	case syntax.Spread:
		return operator("...")
	case syntax.TemplateSubstitution:
		return operator("${}")
	case syntax.MetaProperty:
		return operator(opOr(n, "new.target"))
	case syntax.NonNull:
		return operator("!")
	case syntax.As:
		return operator(opOr(n, "as"))
	case syntax.TypeAssertion:
		return operator("<>")
	case syntax.Member:
		return operator(opOr(n, "."))
	case syntax.Index:
		return operator(opOr(n, "[]"))

	case syntax.Function:
		return operator(opOr(n, "function"))
	case syntax.Class:
		return operator("class")
	case syntax.Decorator:
		return operator("@")

	case syntax.String:
		return operand(classString, n.Text)
	case syntax.Number:
		return operand(classNumber, n.Text)
	case syntax.Bool:
		return operand(classBool, n.Text)
	case syntax.Null:
		return operand(classNull, "null")
	case syntax.Regex:
		return operand(classRegex, n.Text)
	case syntax.Identifier:
		if n.Text == "" {
			return nil
		}
		return operand(className, n.Text)
	case syntax.TemplateChunk:
		if n.Text == "" {
			return nil
		}
		return operand(classTemplate, n.Text)
	case syntax.JSXText:
		text := strings.TrimSpace(n.Text)
		if text == "" {
			return nil
		}
		return operand(classJSX, text)

	case syntax.If:
		return operator("if")
	case syntax.Switch:
		return operator("switch")
	case syntax.Case:
		return operator("case")
	case syntax.Default:
		return operator("default")
	case syntax.For:
		return operator("for")
	case syntax.ForIn:
		return operator(opOr(n, "for-in"))
	case syntax.While:
		return operator("while")
	case syntax.DoWhile:
		return operator("do-while")
	case syntax.Catch:
		return operator("catch")

	case syntax.MappedType:
		return operator("in")
	case syntax.IndexedAccess:
		return operator("[]")
	case syntax.QualifiedName:
		return operator(".")
	}

	panic(fmt.Sprintf("metrics: no classification for syntax kind %s", n.Kind))
}

func opOr(n *syntax.Node, fallback string) string {
	if n.Op != "" {
		return n.Op
	}
	return fallback
}

func opToken(symbol string) Token {
	return Token{Category: Operator, Lexeme: Lexeme{Class: classOp, Value: symbol}}
}

func operator(symbol string) []Token {
	if symbol == "" {
		return nil
	}
	return []Token{opToken(symbol)}
}

func operand(class, value string) []Token {
	return []Token{{Category: Operand, Lexeme: Lexeme{Class: class, Value: value}}}
}

// Package syntax defines the parser-independent syntax tree the metrics engine reads.
package syntax

// Kind identifies the syntactic category of a Node.
type Kind int

const (
	// Unknown is a construct the parser adapter had no lowering for.
	Unknown Kind = iota
	// Group is a structural container (program, block, arguments, patterns, ...).
	Group
	// Comment is a line or block comment.
	Comment

	Binary
	Unary
	Assign
	Update
	Call
	TaggedTemplate
	New
	Ternary
	Sequence
	Arrow
	Await
	Yield
	Spread
	Template
	TemplateChunk
	TemplateSubstitution
	MetaProperty
	NonNull
	As
	TypeAssertion
	Member
	Index

	Function
	Class
	Method
	Decorator

	String
	Number
	Bool
	Null
	Regex
	Identifier

	If
	Switch
	Case
	Default
	For
	ForIn
	While
	DoWhile
	Catch
	// Keyword is a construct introduced by a single keyword (return, try, import, let, ...).
	Keyword

	TypeOperator
	MappedType
	IndexedAccess
	QualifiedName

	JSXElement
	JSXExpression
	JSXAttribute
	JSXText

	kindCount
)

var kindNames = [...]string{
	Unknown:              "unknown",
	Group:                "group",
	Comment:              "comment",
	Binary:               "binary",
	Unary:                "unary",
	Assign:               "assign",
	Update:               "update",
	Call:                 "call",
	TaggedTemplate:       "tagged_template",
	New:                  "new",
	Ternary:              "ternary",
	Sequence:             "sequence",
	Arrow:                "arrow",
	Await:                "await",
	Yield:                "yield",
	Spread:               "spread",
	Template:             "template",
	TemplateChunk:        "template_chunk",
	TemplateSubstitution: "template_substitution",
	MetaProperty:         "meta_property",
	NonNull:              "non_null",
	As:                   "as",
	TypeAssertion:        "type_assertion",
	Member:               "member",
	Index:                "index",
	Function:             "function",
	Class:                "class",
	Method:               "method",
	Decorator:            "decorator",
	String:               "string",
	Number:               "number",
	Bool:                 "bool",
	Null:                 "null",
	Regex:                "regex",
	Identifier:           "identifier",
	If:                   "if",
	Switch:               "switch",
	Case:                 "case",
	Default:              "default",
	For:                  "for",
	ForIn:                "for_in",
	While:                "while",
	DoWhile:              "do_while",
	Catch:                "catch",
	Keyword:              "keyword",
	TypeOperator:         "type_operator",
	MappedType:           "mapped_type",
	IndexedAccess:        "indexed_access",
	QualifiedName:        "qualified_name",
	JSXElement:           "jsx_element",
	JSXExpression:        "jsx_expression",
	JSXAttribute:         "jsx_attribute",
	JSXText:              "jsx_text",
}

// String returns the stable lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "invalid"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// Kinds returns every declared kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Node is one syntax tree node. Trees are built once by a parser adapter and
// only read afterwards.
type Node struct {
	// Kind is the syntactic category
	Kind Kind

	// Op is the operator symbol or introducing keyword ("+", "for-of", "?.", "let")
	Op string

	// Text is the literal text, identifier name or static template segment
	Text string

	// Children are the direct sub-nodes in source order
	Children []*Node
}

// Walk visits n and all of its descendants in pre-order. Returning false from
// fn skips the children of the node just visited.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n *Node) int {
	total := 0
	Walk(n, func(*Node) bool {
		total++
		return true
	})
	return total
}

//go:build cgo

package parse

import (
	sitter "github.com/smacker/go-tree-sitter"

	"fta/internal/syntax"
)

// lowerer converts one tree-sitter tree into a syntax tree.
type lowerer struct {
	source   []byte
	comments []Span
	unknown  map[string]struct{}
}

func (l *lowerer) lower(n *sitter.Node) *syntax.Node {
	if n == nil {
		return nil
	}

	switch n.Type() {
	// Structure without tokens of its own
	case "program", "statement_block", "expression_statement", "parenthesized_expression",
		"arguments", "formal_parameters", "required_parameter", "optional_parameter",
		"object", "array", "pair", "object_pattern", "array_pattern", "pair_pattern",
		"computed_property_name", "class_body", "class_heritage", "extends_clause",
		"implements_clause", "switch_body", "labeled_statement", "empty_statement",
		"import_clause", "named_imports", "namespace_import", "namespace_export",
		"import_specifier", "export_clause", "export_specifier", "import_attribute",
		"type_annotation", "omitting_type_annotation", "opting_type_annotation",
		"asserts_annotation", "type_arguments", "type_parameters", "type_parameter",
		"generic_type", "object_type", "property_signature", "method_signature",
		"call_signature", "construct_signature", "index_signature", "abstract_method_signature",
		"array_type", "tuple_type", "literal_type", "parenthesized_type", "function_type",
		"constructor_type", "optional_type", "rest_type", "constraint", "default_type",
		"type_predicate", "type_predicate_annotation", "asserts", "template_literal_type",
		"template_type", "enum_body", "interface_body", "extends_type_clause",
		"optional_tuple_parameter", "named_tuple_member", "jsx_opening_element",
		"class_static_block":
		return syntax.N(syntax.Group, l.children(n)...)

	case "comment", "hash_bang_line", "html_comment":
		l.comments = append(l.comments, Span{Start: int(n.StartByte()), End: int(n.EndByte())})
		return syntax.Leaf(syntax.Comment, l.text(n))

	// Handled by their parents
	case "optional_chain", "string_fragment", "escape_sequence", "regex_pattern",
		"regex_flags", "jsx_closing_element", "html_character_reference":
		return nil

	// Statements
	case "if_statement":
		return l.op(syntax.If, "if", n)
	case "else_clause":
		return l.op(syntax.Keyword, "else", n)
	case "switch_statement":
		return l.op(syntax.Switch, "switch", n)
	case "switch_case":
		return l.op(syntax.Case, "case", n)
	case "switch_default":
		return l.op(syntax.Default, "default", n)
	case "for_statement":
		return l.op(syntax.For, "for", n)
	case "for_in_statement":
		return l.op(syntax.ForIn, forInVariant(n), n)
	case "while_statement":
		return l.op(syntax.While, "while", n)
	case "do_statement":
		return l.op(syntax.DoWhile, "do-while", n)
	case "try_statement":
		return l.op(syntax.Keyword, "try", n)
	case "catch_clause":
		return l.op(syntax.Catch, "catch", n)
	case "finally_clause":
		return l.op(syntax.Keyword, "finally", n)
	case "return_statement":
		return l.op(syntax.Keyword, "return", n)
	case "throw_statement":
		return l.op(syntax.Keyword, "throw", n)
	case "break_statement":
		return l.op(syntax.Keyword, "break", n)
	case "continue_statement":
		return l.op(syntax.Keyword, "continue", n)
	case "debugger_statement":
		return l.op(syntax.Keyword, "debugger", n)
	case "with_statement":
		return l.op(syntax.Keyword, "with", n)
	case "import_statement", "import":
		return l.op(syntax.Keyword, "import", n)
	case "import_require_clause":
		return l.op(syntax.Keyword, "require", n)
	case "export_statement":
		return l.op(syntax.Keyword, "export", n)
	case "variable_declaration":
		return l.op(syntax.Keyword, "var", n)
	case "lexical_declaration":
		return l.op(syntax.Keyword, firstToken(n, "let"), n)
	case "variable_declarator", "public_field_definition", "field_definition":
		if n.ChildByFieldName("value") != nil {
			return l.op(syntax.Assign, "=", n)
		}
		return syntax.N(syntax.Group, l.children(n)...)
	case "assignment_pattern", "enum_assignment", "object_assignment_pattern":
		return l.op(syntax.Assign, "=", n)

	// Declarations that are a keyword plus a body
	case "interface_declaration":
		return l.op(syntax.Keyword, "interface", n)
	case "type_alias_declaration":
		return l.op(syntax.Keyword, "type", n)
	case "enum_declaration":
		return l.op(syntax.Keyword, "enum", n)
	case "internal_module":
		return l.op(syntax.Keyword, "namespace", n)
	case "module":
		return l.op(syntax.Keyword, "module", n)
	case "ambient_declaration":
		return l.op(syntax.Keyword, "declare", n)
	case "accessibility_modifier", "override_modifier":
		return syntax.Op(syntax.Keyword, l.text(n))

	// Expressions
	case "binary_expression":
		return l.op(syntax.Binary, l.operator(n), n)
	case "unary_expression":
		return l.op(syntax.Unary, l.operator(n), n)
	case "update_expression":
		return l.op(syntax.Update, l.operator(n), n)
	case "assignment_expression":
		return l.op(syntax.Assign, "=", n)
	case "augmented_assignment_expression":
		return l.op(syntax.Assign, l.operator(n), n)
	case "ternary_expression":
		return l.op(syntax.Ternary, "", n)
	case "sequence_expression":
		return syntax.N(syntax.Sequence, l.flattenSequence(n, nil)...)
	case "call_expression":
		if args := n.ChildByFieldName("arguments"); args != nil && args.Type() == "template_string" {
			return l.op(syntax.TaggedTemplate, "", n)
		}
		if hasChild(n, "optional_chain") {
			return l.op(syntax.Call, "?.()", n)
		}
		return l.op(syntax.Call, "()", n)
	case "new_expression":
		return l.op(syntax.New, "", n)
	case "member_expression":
		if hasChild(n, "optional_chain") {
			return l.op(syntax.Member, "?.", n)
		}
		return l.op(syntax.Member, ".", n)
	case "subscript_expression":
		if hasChild(n, "optional_chain") {
			return l.op(syntax.Index, "?.[]", n)
		}
		return l.op(syntax.Index, "[]", n)
	case "arrow_function":
		return l.op(syntax.Arrow, "", n)
	case "await_expression":
		return l.op(syntax.Await, "", n)
	case "yield_expression":
		if hasChild(n, "*") {
			return l.op(syntax.Yield, "yield*", n)
		}
		return l.op(syntax.Yield, "yield", n)
	case "spread_element", "rest_pattern":
		return l.op(syntax.Spread, "", n)
	case "meta_property":
		return syntax.Op(syntax.MetaProperty, l.text(n))
	case "template_string":
		return syntax.N(syntax.Template, l.templateParts(n)...)
	case "template_substitution":
		return l.op(syntax.TemplateSubstitution, "", n)
	case "as_expression":
		return l.op(syntax.As, "as", n)
	case "satisfies_expression":
		return l.op(syntax.As, "satisfies", n)
	case "non_null_expression":
		return l.op(syntax.NonNull, "", n)
	case "type_assertion":
		return l.op(syntax.TypeAssertion, "", n)

	// Functions and classes
	case "function", "function_expression", "function_declaration", "function_signature":
		return l.op(syntax.Function, "function", n)
	case "generator_function", "generator_function_declaration":
		return l.op(syntax.Function, "function*", n)
	case "class", "class_declaration", "abstract_class_declaration":
		return l.op(syntax.Class, "", n)
	case "method_definition":
		return l.op(syntax.Method, "", n)
	case "decorator":
		return l.op(syntax.Decorator, "", n)

	// Literals and names
	case "string":
		return syntax.Str(l.stringValue(n))
	case "number":
		return syntax.Num(l.text(n))
	case "true", "false":
		return syntax.Leaf(syntax.Bool, l.text(n))
	case "null":
		return syntax.N(syntax.Null)
	case "regex":
		return syntax.Leaf(syntax.Regex, l.text(n))
	case "identifier", "property_identifier", "shorthand_property_identifier",
		"shorthand_property_identifier_pattern", "private_property_identifier",
		"type_identifier", "predefined_type", "statement_identifier", "this", "super",
		"undefined", "this_type", "jsx_namespace_name":
		return syntax.Ident(l.text(n))

	// Type operators
	case "index_type_query":
		return l.op(syntax.TypeOperator, "keyof", n)
	case "type_query":
		return l.op(syntax.TypeOperator, "typeof", n)
	case "union_type":
		return l.op(syntax.TypeOperator, "|", n)
	case "intersection_type":
		return l.op(syntax.TypeOperator, "&", n)
	case "readonly_type":
		return l.op(syntax.TypeOperator, "readonly", n)
	case "infer_type":
		return l.op(syntax.TypeOperator, "infer", n)
	case "conditional_type":
		return l.op(syntax.TypeOperator, "extends", n)
	case "mapped_type_clause":
		return l.op(syntax.MappedType, "", n)
	case "lookup_type":
		return l.op(syntax.IndexedAccess, "", n)
	case "nested_identifier", "nested_type_identifier":
		return l.op(syntax.QualifiedName, "", n)

	// JSX
	case "jsx_element", "jsx_fragment":
		return l.op(syntax.JSXElement, "<>", n)
	case "jsx_self_closing_element":
		return l.op(syntax.JSXElement, "</>", n)
	case "jsx_expression":
		return l.op(syntax.JSXExpression, "{}", n)
	case "jsx_attribute":
		if n.NamedChildCount() > 1 {
			return l.op(syntax.JSXAttribute, "=", n)
		}
		return l.op(syntax.JSXAttribute, "", n)
	case "jsx_text":
		return syntax.Leaf(syntax.JSXText, l.text(n))
	}

	if !n.IsNamed() {
		return nil
	}
	l.unknown[n.Type()] = struct{}{}
	return syntax.N(syntax.Unknown, l.children(n)...)
}

// children lowers the named children of n, dropping the ones that lower to nothing.
func (l *lowerer) children(n *sitter.Node) []*syntax.Node {
	count := int(n.NamedChildCount())
	if count == 0 {
		return nil
	}
	out := make([]*syntax.Node, 0, count)
	for i := 0; i < count; i++ {
		if c := l.lower(n.NamedChild(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (l *lowerer) op(kind syntax.Kind, op string, n *sitter.Node) *syntax.Node {
	return syntax.Op(kind, op, l.children(n)...)
}

func (l *lowerer) text(n *sitter.Node) string {
	return string(l.source[n.StartByte():n.EndByte()])
}

// operator returns the operator field of n, or its first anonymous token.
func (l *lowerer) operator(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return l.text(op)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() {
			return c.Type()
		}
	}
	return ""
}

// stringValue strips the quotes of a string literal.
func (l *lowerer) stringValue(n *sitter.Node) string {
	start, end := int(n.StartByte()), int(n.EndByte())
	if end-start < 2 {
		return ""
	}
	return string(l.source[start+1 : end-1])
}

// flattenSequence collects the operands of nested comma expressions.
func (l *lowerer) flattenSequence(n *sitter.Node, out []*syntax.Node) []*syntax.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "sequence_expression" {
			out = l.flattenSequence(c, out)
			continue
		}
		if lowered := l.lower(c); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

// templateParts splits a template literal into its static chunks and
// substitutions, in source order.
func (l *lowerer) templateParts(n *sitter.Node) []*syntax.Node {
	var parts []*syntax.Node
	cursor := int(n.StartByte()) + 1
	end := int(n.EndByte()) - 1

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "template_substitution" {
			continue
		}
		start := int(c.StartByte())
		if start > cursor {
			parts = append(parts, syntax.Leaf(syntax.TemplateChunk, string(l.source[cursor:start])))
		}
		parts = append(parts, l.lower(c))
		cursor = int(c.EndByte())
	}
	if end > cursor {
		parts = append(parts, syntax.Leaf(syntax.TemplateChunk, string(l.source[cursor:end])))
	}
	return parts
}

// forInVariant distinguishes for-in from for-of and for-await-of.
func forInVariant(n *sitter.Node) string {
	switch {
	case hasChild(n, "await"):
		return "for-await-of"
	case hasChild(n, "of"):
		return "for-of"
	default:
		return "for-in"
	}
}

// firstToken returns the type of the first anonymous child, or fallback.
func firstToken(n *sitter.Node, fallback string) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && !c.IsNamed() {
			return c.Type()
		}
	}
	return fallback
}

func hasChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c != nil && c.Type() == typ {
			return true
		}
	}
	return false
}

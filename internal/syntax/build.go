package syntax

// N builds a node of the given kind with children.
func N(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Op builds an operator node.
func Op(kind Kind, op string, children ...*Node) *Node {
	return &Node{Kind: kind, Op: op, Children: children}
}

// Leaf builds a childless node carrying text (literals, names, template chunks).
func Leaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// Ident builds an identifier reference.
func Ident(name string) *Node {
	return Leaf(Identifier, name)
}

// Str builds a string literal holding the unquoted value.
func Str(value string) *Node {
	return Leaf(String, value)
}

// Num builds a numeric literal.
func Num(text string) *Node {
	return Leaf(Number, text)
}

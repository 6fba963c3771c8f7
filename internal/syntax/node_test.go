package syntax

import "testing"

func TestKindString(t *testing.T) {
	seen := make(map[string]Kind)
	for _, k := range Kinds() {
		name := k.String()
		if name == "" || name == "invalid" {
			t.Errorf("kind %d has no name", int(k))
			continue
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("kinds %d and %d share name %q", int(prev), int(k), name)
		}
		seen[name] = k
	}

	if got := Kind(-1).String(); got != "invalid" {
		t.Errorf("Kind(-1).String() = %q, want invalid", got)
	}
	if kindCount.Valid() {
		t.Error("kindCount should not be a valid kind")
	}
}

func TestWalkPreOrder(t *testing.T) {
	tree := N(Group,
		Op(Binary, "+", Ident("a"), Num("1")),
		Ident("b"),
	)

	var order []Kind
	Walk(tree, func(n *Node) bool {
		order = append(order, n.Kind)
		return true
	})

	want := []Kind{Group, Binary, Identifier, Number, Identifier}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestWalkSkipChildren(t *testing.T) {
	tree := N(Group, Op(Function, "function", Ident("inner")), Ident("outer"))

	var names []string
	Walk(tree, func(n *Node) bool {
		if n.Kind == Identifier {
			names = append(names, n.Text)
		}
		return n.Kind != Function
	})

	if len(names) != 1 || names[0] != "outer" {
		t.Errorf("names = %v, want [outer]", names)
	}
}

func TestCount(t *testing.T) {
	if got := Count(nil); got != 0 {
		t.Errorf("Count(nil) = %d, want 0", got)
	}
	tree := N(Group, N(Group, Ident("x")), Str("y"))
	if got := Count(tree); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
}

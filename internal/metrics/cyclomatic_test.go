package metrics

import (
	"testing"

	"fta/internal/syntax"
)

func TestCyclomatic(t *testing.T) {
	tests := []struct {
		name string
		tree *syntax.Node
		want int
	}{
		{
			name: "empty",
			tree: syntax.N(syntax.Group),
			want: 1,
		},
		{
			name: "switch with default",
			tree: switchFixture(),
			want: 3,
		},
		{
			name: "if else if",
			tree: syntax.N(syntax.If,
				syntax.Ident("a"),
				syntax.N(syntax.Group),
				syntax.N(syntax.If, syntax.Ident("b"), syntax.N(syntax.Group)),
			),
			want: 3,
		},
		{
			name: "loops",
			tree: syntax.N(syntax.Group,
				syntax.N(syntax.For),
				syntax.Op(syntax.ForIn, "for-of"),
				syntax.N(syntax.While),
				syntax.N(syntax.DoWhile),
			),
			want: 5,
		},
		{
			name: "short circuit operators",
			tree: syntax.Op(syntax.Binary, "??",
				syntax.Op(syntax.Binary, "&&", syntax.Ident("a"), syntax.Ident("b")),
				syntax.Op(syntax.Binary, "||", syntax.Ident("c"), syntax.Ident("d")),
			),
			want: 4,
		},
		{
			name: "logical assignments",
			tree: syntax.N(syntax.Group,
				syntax.Op(syntax.Assign, "||=", syntax.Ident("a"), syntax.Ident("b")),
				syntax.Op(syntax.Assign, "??=", syntax.Ident("c"), syntax.Ident("d")),
				syntax.Op(syntax.Assign, "&&=", syntax.Ident("e"), syntax.Ident("f")),
				syntax.Op(syntax.Assign, "+=", syntax.Ident("g"), syntax.Num("1")),
				syntax.Op(syntax.Assign, "=", syntax.Ident("h"), syntax.Num("2")),
			),
			want: 4,
		},
		{
			name: "arithmetic does not branch",
			tree: syntax.Op(syntax.Binary, "+",
				syntax.Op(syntax.Binary, "===", syntax.Ident("a"), syntax.Ident("b")),
				syntax.Ident("c"),
			),
			want: 1,
		},
		{
			name: "ternary and catch",
			tree: syntax.N(syntax.Group,
				syntax.N(syntax.Ternary, syntax.Ident("a"), syntax.Num("1"), syntax.Num("2")),
				syntax.N(syntax.Catch, syntax.Ident("err")),
			),
			want: 3,
		},
		{
			name: "nested functions count toward the file",
			tree: syntax.N(syntax.Function,
				syntax.N(syntax.If, syntax.Ident("a")),
				syntax.N(syntax.Arrow,
					syntax.N(syntax.If, syntax.Ident("b")),
				),
				syntax.N(syntax.Class,
					syntax.N(syntax.Method, syntax.N(syntax.While)),
				),
			),
			want: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cyclomatic(tt.tree); got != tt.want {
				t.Errorf("Cyclomatic() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCyclomatic_AtLeastOne(t *testing.T) {
	r := newFixedRand()
	for i := 0; i < 100; i++ {
		if got := Cyclomatic(randomTree(r, 4)); got < 1 {
			t.Fatalf("Cyclomatic() = %d, want >= 1", got)
		}
	}
}

package expr

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

func TestToPostfix(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a", []string{"a"}},
		{"a&b", []string{"a", "b", "&"}},
		{"~(a&b)|c", []string{"a", "b", "&", "~", "c", "|"}},
		{"a|b&c", []string{"a", "b", "c", "&", "|"}},
		{"a&b|c", []string{"a", "b", "&", "c", "|"}},
		{"a&b&c", []string{"a", "b", "&", "c", "&"}},
		{"~a&~b", []string{"a", "~", "b", "~", "&"}},
		{"a & ~ b", []string{"a", "b", "~", "&"}},
		{"(a|b)&(c|d)", []string{"a", "b", "|", "c", "d", "|", "&"}},
		{"x10 | y2", []string{"x10", "y2", "|"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := FormatPostfix(ToPostfix(tt.input))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ToPostfix(%q) = %v, want %v", tt.input, got, tt.want)
			}
			e, err := Parse(tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if tree := FormatPostfix(e.Postfix()); !slices.Equal(tree, tt.want) {
				t.Errorf("Postfix() of %q = %v, want %v", tt.input, tree, tt.want)
			}
		})
	}
}

func TestToPostfix_AgreesWithTree(t *testing.T) {
	for _, s := range randomExpressions(500, 42) {
		e, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		yard := ToPostfix(s)
		tree := e.Postfix()
		if !sameTokens(yard, tree) {
			t.Fatalf("%q: shunting-yard %v != tree %v", s, FormatPostfix(yard), FormatPostfix(tree))
		}
		if err := CheckPostfix(yard); err != nil {
			t.Fatalf("%q: %v", s, err)
		}
	}
}

func TestCheckPostfix(t *testing.T) {
	tok := func(s string) Token {
		switch s {
		case "&":
			return operatorToken(And, 0)
		case "|":
			return operatorToken(Or, 0)
		case "~":
			return operatorToken(Not, 0)
		case "(":
			return operatorToken(LParen, 0)
		}
		return Token{Kind: Ident, Text: s}
	}
	seq := func(parts ...string) []Token {
		out := make([]Token, len(parts))
		for i, p := range parts {
			out[i] = tok(p)
		}
		return out
	}

	tests := []struct {
		name    string
		toks    []Token
		wantErr bool
	}{
		{"single operand", seq("a"), false},
		{"binary", seq("a", "b", "&"), false},
		{"unary", seq("a", "~"), false},
		{"empty", nil, true},
		{"underflow binary", seq("a", "&"), true},
		{"underflow unary", seq("~"), true},
		{"leftover operands", seq("a", "b"), true},
		{"parenthesis", seq("a", "("), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckPostfix(tt.toks)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckPostfix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !gserrors.Is(err, gserrors.ErrCodeInternalInconsistency) {
				t.Errorf("CheckPostfix() code = %q", gserrors.GetCode(err))
			}
		})
	}
}

func TestToPostfix_DropsParentheses(t *testing.T) {
	for _, tok := range ToPostfix("((a)|(~(b)))") {
		if tok.Kind == LParen || tok.Kind == RParen {
			t.Fatalf("parenthesis emitted: %v", tok)
		}
	}
}

func sameTokens(a, b []Token) bool {
	return slices.EqualFunc(a, b, func(x, y Token) bool {
		return x.Kind == y.Kind && x.Text == y.Text
	})
}

// randomExpressions generates n grammar-conforming expressions from a fixed
// seed, with random whitespace sprinkled between tokens.
func randomExpressions(n int, seed uint64) []string {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	names := []string{"a", "b", "c", "d", "x1", "Y", "sel0"}
	space := func() string {
		if rng.IntN(4) == 0 {
			return " "
		}
		return ""
	}

	var genExpr func(depth int) string
	genAtom := func(depth int) string {
		if depth <= 0 || rng.IntN(3) > 0 {
			return names[rng.IntN(len(names))]
		}
		return "(" + space() + genExpr(depth-1) + space() + ")"
	}
	genTerm := func(depth int) string {
		if rng.IntN(4) == 0 {
			return "~" + space() + genAtom(depth)
		}
		return genAtom(depth)
	}
	genExpr = func(depth int) string {
		var b strings.Builder
		b.WriteString(genTerm(depth))
		for k := rng.IntN(4); k > 0; k-- {
			op := "&"
			if rng.IntN(2) == 0 {
				op = "|"
			}
			fmt.Fprintf(&b, "%s%s%s%s", space(), op, space(), genTerm(depth))
		}
		return b.String()
	}

	out := make([]string, n)
	for i := range out {
		out[i] = genExpr(3)
	}
	return out
}

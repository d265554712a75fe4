package expr

import (
	"errors"
	"strings"
	"testing"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

func TestParse_Accepts(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"a&b", "(a & b)"},
		{"a | b & c", "(a | (b & c))"},
		{"a&b|c", "((a & b) | c)"},
		{"a|b|c", "((a | b) | c)"},
		{"~a", "~a"},
		{"~(a&b)|c", "(~(a & b) | c)"},
		{"~(~a)", "~(~a)"},
		{"((x1))", "x1"},
		{" A1 &\tb2 ", "(A1 & b2)"},
		{"Clk&~Reset", "(Clk & ~Reset)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.input, err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("Parse(%q) = %s, want %s", tt.input, got, tt.want)
			}
			if e.Source != tt.input {
				t.Errorf("Source = %q, want %q", e.Source, tt.input)
			}
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "expression is empty"},
		{"blank", "   ", "expression is empty"},
		{"dangling and", "a&", `missing operand after "&"`},
		{"dangling not", "~", `missing operand after "~"`},
		{"leading or", "|a", `missing operand before "|"`},
		{"double operator", "a&|b", `missing operand before "|"`},
		{"open paren", "(a", "unbalanced '('"},
		{"close paren", "a)", "unbalanced ')'"},
		{"empty parens", "()", `missing operand before ")"`},
		{"adjacent identifiers", "a b", `missing operator before "b"`},
		{"identifier then paren", "a(b)", `missing operator before "("`},
		{"double not", "~~a", "'~' must be followed"},
		{"digit led", "1a", "identifier must start with a letter"},
		{"illegal char", "a+b", `illegal character '+'`},
		{"underscore", "a_b", `illegal character '_'`},
		{"unicode letter", "ä&b", "illegal character"},
		{"no-break space", "a\u00a0&b", `illegal character '\u00a0'`},
		{"line separator", "a&\u2028b", `illegal character '\u2028'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.input)
			}
			if !gserrors.Is(err, gserrors.ErrCodeInvalidExpression) {
				t.Errorf("Parse(%q) code = %q, want INVALID_EXPRESSION", tt.input, gserrors.GetCode(err))
			}
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse(%q) error has no SyntaxError cause: %v", tt.input, err)
			}
			if !strings.Contains(se.Msg, tt.msg) {
				t.Errorf("Parse(%q) message = %q, want it to contain %q", tt.input, se.Msg, tt.msg)
			}
			if Validate(tt.input) {
				t.Errorf("Validate(%q) = true, want false", tt.input)
			}
		})
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	_, err := Parse("a & (b | c")
	var se *SyntaxError
	if !errors.As(err, &se) {
		t.Fatalf("expected SyntaxError, got %v", err)
	}
	if se.Pos != 4 {
		t.Errorf("Pos = %d, want 4", se.Pos)
	}
	if got := Detail(err); got != "unbalanced '(' at position 5" {
		t.Errorf("Detail() = %q", got)
	}
	if Detail(errors.New("other")) != "" {
		t.Error("Detail() of a foreign error should be empty")
	}
}

func TestValidate_Idempotent(t *testing.T) {
	for _, s := range randomExpressions(300, 7) {
		if !Validate(s) {
			t.Fatalf("generated expression rejected: %q", s)
		}
		e, _ := Parse(s)
		if !Validate(e.Source) {
			t.Errorf("re-validation of %q failed", s)
		}
		if !Validate(e.String()) {
			t.Errorf("canonical form %q of %q rejected", e.String(), s)
		}
	}
}

func TestOperands(t *testing.T) {
	e, err := Parse("c | b & ~(a | c) & B")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(e.Operands(), ",")
	if got != "B,a,b,c" {
		t.Errorf("Operands() = %s, want B,a,b,c", got)
	}
}

func TestLex(t *testing.T) {
	toks, err := Lex("~(ab1 & c)")
	if err != nil {
		t.Fatal(err)
	}
	kinds := []Kind{Not, LParen, Ident, And, Ident, RParen}
	if len(toks) != len(kinds) {
		t.Fatalf("Lex() returned %d tokens, want %d", len(toks), len(kinds))
	}
	for i, k := range kinds {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %v, want %v", i, toks[i].Kind, k)
		}
	}
	if toks[2].Text != "ab1" || toks[2].Pos != 2 {
		t.Errorf("identifier token = %+v", toks[2])
	}
}

func TestStripSpace(t *testing.T) {
	tests := map[string]string{
		" a &\t b\n":     "a&b",
		"a |\r\nb":       "a|b",
		"a\u00a0&b":      "a\u00a0&b",
		"\u2028~a\u3000": "\u2028~a\u3000",
	}
	for in, want := range tests {
		if got := StripSpace(in); got != want {
			t.Errorf("StripSpace(%q) = %q, want %q", in, got, want)
		}
	}
}

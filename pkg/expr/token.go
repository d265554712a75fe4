package expr

import "fmt"

// Kind tags the variant of a [Token].
type Kind int

const (
	Ident Kind = iota
	And
	Or
	Not
	LParen
	RParen
)

// String returns the source symbol for operators and parentheses.
func (k Kind) String() string {
	switch k {
	case Ident:
		return "identifier"
	case And:
		return "&"
	case Or:
		return "|"
	case Not:
		return "~"
	case LParen:
		return "("
	case RParen:
		return ")"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical element. Text holds the identifier name for Ident
// tokens and the operator symbol otherwise. Pos is the byte offset in the
// scanned string.
type Token struct {
	Kind Kind
	Text string
	Pos  int
}

// IsOperator reports whether the token is AND, OR or NOT.
func (t Token) IsOperator() bool {
	return t.Kind == And || t.Kind == Or || t.Kind == Not
}

// Precedence returns the binding strength used by the shunting-yard
// conversion. Higher binds tighter; non-operators return 0.
func (t Token) Precedence() int {
	switch t.Kind {
	case Not:
		return 3
	case And:
		return 2
	case Or:
		return 1
	}
	return 0
}

// Arity returns the number of operands the token consumes.
func (t Token) Arity() int {
	switch t.Kind {
	case And, Or:
		return 2
	case Not:
		return 1
	}
	return 0
}

func (t Token) String() string {
	return t.Text
}

// FormatPostfix returns the source text of each token, e.g. [a b &].
func FormatPostfix(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func operatorToken(k Kind, pos int) Token {
	return Token{Kind: k, Text: k.String(), Pos: pos}
}

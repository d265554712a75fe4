package expr

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// Node is a node of the expression tree. Leaves have Kind Ident and a Name;
// NOT nodes have one argument and AND/OR nodes two, left operand first.
type Node struct {
	Kind Kind
	Name string
	Args []*Node
	Pos  int
}

// Expr is a validated expression.
type Expr struct {
	Source string
	Root   *Node
}

// Parse validates s against the grammar and returns its syntax tree.
// Errors carry [gserrors.ErrCodeInvalidExpression] with a *SyntaxError cause.
func Parse(s string) (*Expr, error) {
	toks, err := Lex(s)
	if err != nil {
		return nil, invalid(err)
	}
	if len(toks) == 0 {
		return nil, invalid(&SyntaxError{Pos: 0, Msg: "expression is empty"})
	}

	p := &parser{toks: toks, end: len(s)}
	root, err := p.expr()
	if err != nil {
		return nil, invalid(err)
	}
	if !p.atEnd() {
		return nil, invalid(p.trailing())
	}
	return &Expr{Source: s, Root: root}, nil
}

// Validate reports whether s is a well-formed expression.
func Validate(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func invalid(err error) error {
	return gserrors.Wrap(gserrors.ErrCodeInvalidExpression, err, "malformed Boolean expression")
}

// Detail returns the syntax diagnostic carried by err, or "" when err did
// not come from the parser.
func Detail(err error) string {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Error()
	}
	return ""
}

type parser struct {
	toks []Token
	i    int
	end  int
}

func (p *parser) atEnd() bool { return p.i >= len(p.toks) }

func (p *parser) peek() (Token, bool) {
	if p.atEnd() {
		return Token{}, false
	}
	return p.toks[p.i], true
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

// expr parses a '|'-separated chain of conjunctions. The grammar lists '&'
// and '|' at one level; splitting them here gives '&' its higher precedence
// without changing the accepted language.
func (p *parser) expr() (*Node, error) {
	return p.chain(Or, p.conj)
}

func (p *parser) conj() (*Node, error) {
	return p.chain(And, p.term)
}

func (p *parser) chain(op Kind, operand func() (*Node, error)) (*Node, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		t, ok := p.peek()
		if !ok || t.Kind != op {
			return left, nil
		}
		p.i++
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Node{Kind: op, Args: []*Node{left, right}, Pos: t.Pos}
	}
}

func (p *parser) term() (*Node, error) {
	if t, ok := p.peek(); ok && t.Kind == Not {
		p.i++
		arg, err := p.atom()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: Not, Args: []*Node{arg}, Pos: t.Pos}, nil
	}
	return p.atom()
}

func (p *parser) atom() (*Node, error) {
	t, ok := p.peek()
	if !ok {
		if p.i == 0 {
			return nil, &SyntaxError{Pos: 0, Msg: "expression is empty"}
		}
		return nil, &SyntaxError{Pos: p.end, Msg: fmt.Sprintf("missing operand after %q", p.prev().Text)}
	}

	switch t.Kind {
	case Ident:
		p.i++
		return &Node{Kind: Ident, Name: t.Text, Pos: t.Pos}, nil
	case LParen:
		p.i++
		inner, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c, ok := p.peek(); !ok || c.Kind != RParen {
			return nil, &SyntaxError{Pos: t.Pos, Msg: "unbalanced '('"}
		}
		p.i++
		return inner, nil
	case Not:
		return nil, &SyntaxError{Pos: t.Pos, Msg: "'~' must be followed by an identifier or '('"}
	default:
		return nil, &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("missing operand before %q", t.Text)}
	}
}

// trailing explains why tokens remain after a complete expression.
func (p *parser) trailing() error {
	t := p.toks[p.i]
	if t.Kind == RParen {
		return &SyntaxError{Pos: t.Pos, Msg: "unbalanced ')'"}
	}
	return &SyntaxError{Pos: t.Pos, Msg: fmt.Sprintf("missing operator before %q", t.Text)}
}

// Postfix returns the tokens of the tree in post-order.
func (e *Expr) Postfix() []Token {
	var out []Token
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, a := range n.Args {
			walk(a)
		}
		if n.Kind == Ident {
			out = append(out, Token{Kind: Ident, Text: n.Name, Pos: n.Pos})
			return
		}
		out = append(out, operatorToken(n.Kind, n.Pos))
	}
	walk(e.Root)
	return out
}

// Operands returns the distinct identifiers of the expression in
// lexicographic order.
func (e *Expr) Operands() []string {
	seen := make(map[string]bool)
	var names []string
	for _, t := range e.Postfix() {
		if t.Kind == Ident && !seen[t.Text] {
			seen[t.Text] = true
			names = append(names, t.Text)
		}
	}
	slices.Sort(names)
	return names
}

// String returns the expression fully parenthesised, e.g. "(~(a & b) | c)".
func (e *Expr) String() string {
	var b strings.Builder
	writeNode(&b, e.Root)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	switch n.Kind {
	case Ident:
		b.WriteString(n.Name)
	case Not:
		b.WriteString("~")
		if n.Args[0].Kind == Not {
			b.WriteString("(")
			writeNode(b, n.Args[0])
			b.WriteString(")")
			return
		}
		writeNode(b, n.Args[0])
	default:
		b.WriteString("(")
		writeNode(b, n.Args[0])
		fmt.Fprintf(b, " %s ", n.Kind)
		writeNode(b, n.Args[1])
		b.WriteString(")")
	}
}

package expr

import (
	gserrors "github.com/matzehuels/gatesketch/pkg/errors"
)

// ToPostfix converts an accepted expression to postfix order with the
// shunting-yard algorithm. Whitespace is stripped first.
//
// The result is only defined for input accepted by [Parse]; callers must
// validate first. Operators leave the stack while the top is not '(' and has
// precedence greater than or equal to the incoming operator, for NOT as well
// as for the binary operators.
func ToPostfix(s string) []Token {
	toks, err := Lex(StripSpace(s))
	if err != nil {
		return nil
	}

	out := make([]Token, 0, len(toks))
	var stack []Token
	for _, t := range toks {
		switch t.Kind {
		case Ident:
			out = append(out, t)
		case LParen:
			stack = append(stack, t)
		case RParen:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.Kind == LParen {
					break
				}
				out = append(out, top)
			}
		default:
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top.Kind == LParen || top.Precedence() < t.Precedence() {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.Kind != LParen {
			out = append(out, top)
		}
	}
	return out
}

// CheckPostfix simulates an operand stack over toks and returns an
// INTERNAL_INCONSISTENCY error if it underflows, meets a parenthesis, or
// does not end with exactly one element.
func CheckPostfix(toks []Token) error {
	depth := 0
	for i, t := range toks {
		switch {
		case t.Kind == Ident:
			depth++
		case t.IsOperator():
			if depth < t.Arity() {
				return gserrors.New(gserrors.ErrCodeInternalInconsistency,
					"postfix underflow at token %d (%q)", i, t.Text)
			}
			depth -= t.Arity() - 1
		default:
			return gserrors.New(gserrors.ErrCodeInternalInconsistency,
				"unexpected %q in postfix sequence", t.Text)
		}
	}
	if depth != 1 {
		return gserrors.New(gserrors.ErrCodeInternalInconsistency,
			"postfix sequence leaves %d operands, want 1", depth)
	}
	return nil
}

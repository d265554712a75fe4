// Package expr parses Boolean-algebra expressions over identifiers and the
// operators NOT (~), AND (&) and OR (|).
//
// # Grammar
//
//	expr := term (( '&' | '|' ) term)*
//	term := '~' atom | atom
//	atom := identifier | '(' expr ')'
//
// Identifiers are letter-led runs of ASCII letters and digits and are
// case-sensitive. '&' binds tighter than '|' and both are left-associative.
// Whitespace separates tokens and is otherwise ignored, so "a b" is two
// identifiers (rejected) while " a & b " is accepted.
//
// # Parsing and Validation
//
// [Parse] is the only grammar in the package: it builds an [Expr] whose
// abstract syntax tree is the source of truth for validity. [Validate] is a
// boolean view of the same parse, so validating an accepted string again
// always succeeds.
//
//	e, err := expr.Parse("~(a&b)|c")
//	if err != nil {
//	    // errors.Is(err, errors.ErrCodeInvalidExpression)
//	}
//	fmt.Println(expr.FormatPostfix(e.Postfix())) // [a b & ~ c |]
//
// # Postfix
//
// Two routes produce postfix order. [Expr.Postfix] walks the tree in
// post-order. [ToPostfix] runs the shunting-yard algorithm over the token
// stream with the precedence table NOT=3, AND=2, OR=1 and a uniform ≥
// comparison. For every accepted expression the two agree; [CheckPostfix]
// simulates an operand stack to verify a sequence is well formed.
package expr

package expr

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SyntaxError describes where and why an expression was rejected.
// Pos is a byte offset into the source.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos+1)
}

// Lex splits s into tokens, skipping whitespace.
func Lex(s string) ([]Token, error) {
	toks := make([]Token, 0, len(s))
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '&':
			toks = append(toks, operatorToken(And, i))
		case c == '|':
			toks = append(toks, operatorToken(Or, i))
		case c == '~':
			toks = append(toks, operatorToken(Not, i))
		case c == '(':
			toks = append(toks, operatorToken(LParen, i))
		case c == ')':
			toks = append(toks, operatorToken(RParen, i))
		case isLetter(c):
			j := i + 1
			for j < len(s) && isAlnum(s[j]) {
				j++
			}
			toks = append(toks, Token{Kind: Ident, Text: s[i:j], Pos: i})
			i = j
			continue
		case isDigit(c):
			return nil, &SyntaxError{Pos: i, Msg: "identifier must start with a letter"}
		case isSpace(c):
		default:
			r, _ := utf8.DecodeRuneInString(s[i:])
			return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("illegal character %q", r)}
		}
		i++
	}
	return toks, nil
}

// StripSpace removes ASCII whitespace from s. Other Unicode spaces are kept
// so that Lex rejects them.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf && isSpace(byte(r)) {
			return -1
		}
		return r
	}, s)
}

func isSpace(c byte) bool  { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isAlnum(c byte) bool  { return isLetter(c) || isDigit(c) }

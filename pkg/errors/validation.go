package errors

import (
	"strings"
	"unicode"
)

// MaxExpressionLength bounds the size of an expression accepted from users.
const MaxExpressionLength = 4096

// ValidateExpressionInput performs the cheap checks that run before any
// parsing: the input must be non-blank, bounded in length and free of
// control characters other than ordinary whitespace.
//
// Grammar checks live in the expr package; this only guards the boundary.
func ValidateExpressionInput(s string) error {
	if strings.TrimSpace(s) == "" {
		return New(ErrCodeInvalidExpression, "expression cannot be empty")
	}
	if len(s) > MaxExpressionLength {
		return New(ErrCodeInvalidExpression, "expression too long (max %d characters)", MaxExpressionLength)
	}
	for _, r := range s {
		if r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidExpression, "expression contains invalid control characters")
		}
	}
	return nil
}

// ValidateArtifactID validates an artifact identifier for safety.
// It rejects ids that could be used for path traversal when stores map ids
// onto file names.
//
// Validation rules:
//   - Cannot be empty
//   - Maximum length of 128 characters
//   - Only ASCII letters, digits, '-' and '_'
func ValidateArtifactID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "artifact id cannot be empty")
	}

	const maxIDLength = 128
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "artifact id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return New(ErrCodeInvalidID, "artifact id contains invalid character %q", r)
		}
	}
	return nil
}

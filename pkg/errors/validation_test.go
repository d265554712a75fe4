package errors

import (
	"strings"
	"testing"
)

func TestValidateExpressionInput(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "a&b", false},
		{"with spaces", " ~(a | b) ", false},
		{"with tab and newline", "a\t&\nb", false},
		{"garbage is left to the parser", "a&&", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", strings.Repeat("a", MaxExpressionLength+1), true},
		{"null byte", "a\x00b", true},
		{"control char", "a\x01&b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExpressionInput(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateExpressionInput(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidExpression) {
				t.Errorf("ValidateExpressionInput(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateArtifactID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"uuid", "6f1c2e4a-9b7d-4c1e-8f2a-1d3e5b7c9a0f", false},
		{"hex", "3a7bd3e2360a3d29eea436fcfb7e44c735d117c42d1c1835420b6b9942dd4f1b", false},
		{"underscore", "circuit_1", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"path traversal", "../etc/passwd", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"dot", "circuit.png", true},
		{"null byte", "a\x00b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifactID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateArtifactID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateArtifactID(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidExpression,
		ErrCodeInvalidFormat,
		ErrCodeInvalidID,
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeStorage,
		ErrCodeInternal,
		ErrCodeInternalInconsistency,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}

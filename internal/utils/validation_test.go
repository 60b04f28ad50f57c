package utils

import (
	"errors"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "error with field",
			err: ValidationError{
				Field:   "trigger",
				Value:   "",
				Message: "cannot be empty",
			},
			expected: "validation error for field 'trigger': cannot be empty",
		},
		{
			name: "error without field",
			err: ValidationError{
				Message: "invalid format",
			},
			expected: "validation error: invalid format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("ValidationError.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator[string]
		value     string
		wantErr   string
	}{
		{"not empty ok", NotEmpty("f"), "x", ""},
		{"not empty fails", NotEmpty("f"), "", "cannot be empty"},
		{"regex ok", MatchesRegex("f", `^v\d+$`), "v2", ""},
		{"regex fails", MatchesRegex("f", `^v\d+$`), "2", "must match pattern"},
		{"identifier ok", IsValidGoIdentifier("f"), "rstest", ""},
		{"identifier keyword", IsValidGoIdentifier("f"), "func", "valid Go identifier"},
		{"identifier empty", IsValidGoIdentifier("f"), "", "valid Go identifier"},
		{"directive ok", IsDirectiveName("f"), "snapcase:test", ""},
		{"directive three segments", IsDirectiveName("f"), "acme:snap:case", ""},
		{"directive single segment", IsDirectiveName("f"), "snapcase", "tool:name"},
		{"directive upper-case tool", IsDirectiveName("f"), "Snapcase:test", "tool:name"},
		{"directive double colon", IsDirectiveName("f"), "snapcase::test", "not a valid identifier"},
		{"import path ok", IsImportPath("f"), "github.com/acme/insta/v2", ""},
		{"import path invalid", IsImportPath("f"), "github.com/acme/in sta", "f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("context_marker")).Add(IsValidGoIdentifier("context_marker"))

	if err := chain.Validate("context"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := chain.Validate("")
	if err == nil || !strings.Contains(err.Error(), "cannot be empty") {
		t.Errorf("expected first validator to fail, got %v", err)
	}

	err = chain.Validate("1x")
	if err == nil || !strings.Contains(err.Error(), "valid Go identifier") {
		t.Errorf("expected second validator to fail, got %v", err)
	}
}

package parser

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
)

// ErrorReporter builds located errors and warnings for a single source file
type ErrorReporter struct {
	file    *models.SourceFile
	trigger string
}

// NewErrorReporter creates a reporter for file. trigger is the directive
// text without slashes.
func NewErrorReporter(file *models.SourceFile, trigger string) *ErrorReporter {
	return &ErrorReporter{file: file, trigger: trigger}
}

// Location converts a token position into a SourceLocation
func (r *ErrorReporter) Location(pos token.Pos) errors.SourceLocation {
	p := r.file.FileSet.Position(pos)
	return errors.SourceLocation{File: r.file.Path, Line: p.Line, Column: p.Column}
}

// ReportMissingBody reports a triggered function declared without a body
func (r *ErrorReporter) ReportMissingBody(function string, pos token.Pos) *errors.BaseError {
	return errors.ParseError(fmt.Sprintf("function %s has no body", function)).
		WithLocation(r.Location(pos)).
		WithContext("function", function).
		WithSuggestion("Only function declarations with a body can be rewritten")
}

// ReportMalformedMarker reports a parameter comment that starts like a marker
// but does not parse
func (r *ErrorReporter) ReportMalformedMarker(function, comment string, pos token.Pos, cause error) *errors.BaseError {
	return errors.Wrapf(errors.SyntaxErrorCode, cause, "function %s: malformed parameter marker %s", function, comment).
		WithLocation(r.Location(pos)).
		WithContext("function", function).
		WithContext("marker", comment).
		WithSuggestions(
			"Markers look like /*@name*/ or /*@name args*/",
			"Example: func TestX(/*@context*/ ctx rstest.Context)",
		)
}

// IsNearTrigger reports whether a comment looks like a misspelled trigger:
// a space after the slashes, or "::" in place of ":".
func (r *ErrorReporter) IsNearTrigger(comment string) bool {
	content, ok := strings.CutPrefix(comment, "//")
	if !ok {
		return false
	}
	normalized := strings.ReplaceAll(strings.TrimSpace(content), "::", ":")
	return normalized == r.trigger && content != r.trigger
}

// ReportNearTrigger warns about a doc comment that is almost the trigger
func (r *ErrorReporter) ReportNearTrigger(function, comment string, pos token.Pos) *errors.BaseError {
	return errors.ParseError(fmt.Sprintf("function %s: %q is not recognized as a directive and will be skipped", function, comment)).
		WithLocation(r.Location(pos)).
		WithContext("function", function).
		WithSuggestion(fmt.Sprintf("Write the directive exactly as //%s, with no space after the slashes", r.trigger))
}

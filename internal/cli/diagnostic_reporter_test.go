package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/toyz/snapcase/internal/errors"
)

func newTestReporter(t *testing.T, verbose bool) (*DiagnosticReporter, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	reporter := NewDiagnosticReporter(verbose)
	reporter.SetOutput(&buf)
	return reporter, &buf
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	warning := errors.New(errors.SyntaxErrorCode, "looks like a misspelled trigger").
		WithLocation(errors.SourceLocation{File: "calc_test.go", Line: 3, Column: 1}).
		WithSuggestion("Write //snapcase:test")

	t.Run("default", func(t *testing.T) {
		reporter, buf := newTestReporter(t, false)
		reporter.ReportWarning(warning)

		assert.Equal(t, "! calc_test.go:3:1: looks like a misspelled trigger\n", buf.String())
	})

	t.Run("verbose adds suggestions", func(t *testing.T) {
		reporter, buf := newTestReporter(t, true)
		reporter.ReportWarning(warning)

		assert.Contains(t, buf.String(), "  - Write //snapcase:test\n")
	})
}

func TestDiagnosticReporter_ReportError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := errors.Wrap(errors.FileSystemErrorCode, "failed to write file 'calc_test.go'", cause).
		WithLocation(errors.SourceLocation{File: "calc_test.go"}).
		WithContext("operation", "write").
		WithContext("file_mode", "0644").
		WithSuggestion("Free some space\nthen run again")

	t.Run("default", func(t *testing.T) {
		reporter, buf := newTestReporter(t, false)
		reporter.ReportError(err)

		out := buf.String()
		assert.Contains(t, out, "ERROR: FileSystemError\n")
		assert.Contains(t, out, "Message: failed to write file 'calc_test.go': disk full\n")
		assert.Contains(t, out, "Location: calc_test.go\n")
		assert.Contains(t, out, "Context:\n   File Mode: 0644\n   Operation: write\n")
		assert.Contains(t, out, "   1. Free some space\n      then run again\n")
		assert.NotContains(t, out, "Underlying cause")
	})

	t.Run("verbose shows the cause", func(t *testing.T) {
		reporter, buf := newTestReporter(t, true)
		reporter.ReportError(err)

		assert.Contains(t, buf.String(), "Underlying cause: disk full\n")
	})

	t.Run("plain errors", func(t *testing.T) {
		reporter, buf := newTestReporter(t, false)
		reporter.ReportError(fmt.Errorf("boom"))

		assert.Contains(t, buf.String(), "ERROR: UnknownError\n")
		assert.Contains(t, buf.String(), "Message: boom\n")
	})
}

func TestDiagnosticReporter_ReportMultipleErrors(t *testing.T) {
	multi := errors.NewMultipleErrors()
	multi.Add(errors.NewMissingDependencyError("insta"))
	multi.Add(errors.NewUnsupportedReceiverError("TestMethod", errors.SourceLocation{File: "a_test.go", Line: 9, Column: 1}))

	reporter, buf := newTestReporter(t, false)
	reporter.ReportError(fmt.Errorf("run: %w", multi))

	out := buf.String()
	assert.Contains(t, out, "ERROR: MissingDependency\n")
	assert.Contains(t, out, "ERROR: UnsupportedReceiver\n")
	assert.Contains(t, out, "Location: a_test.go:9:1\n")
	assert.Contains(t, out, "Message: function TestMethod: method receivers are not supported\n")
}

func TestFormatContextKey(t *testing.T) {
	assert.Equal(t, "Function", formatContextKey("function"))
	assert.Equal(t, "Config Type", formatContextKey("config_type"))
}

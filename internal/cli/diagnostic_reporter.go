package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/toyz/snapcase/internal/errors"
)

// DiagnosticReporter renders errors and warnings with their location,
// context and suggestions. It is safe for concurrent use; each report is
// written as one uninterrupted block.
type DiagnosticReporter struct {
	mu      sync.Mutex
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the reporter to w
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = w
}

// ReportWarning prints a single-line warning
func (r *DiagnosticReporter) ReportWarning(warning errors.SnapcaseError) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color.New(color.FgYellow, color.Bold).Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", warning.Error())
	if r.verbose {
		for _, suggestion := range warning.Suggestions() {
			fmt.Fprintf(r.out, "  - %s\n", suggestion)
		}
	}
}

// ReportError prints every error carried by err. A MultipleErrors collection
// is reported entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reportError(err)
}

func (r *DiagnosticReporter) reportError(err error) {
	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			r.reportError(e)
		}
		return
	}

	var se errors.SnapcaseError
	if !stderrors.As(err, &se) {
		r.printHeader(errors.UnknownErrorCode)
		fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())
		return
	}

	r.printHeader(se.ErrorCode())
	fmt.Fprintf(r.out, "Message: %s\n", message(se))
	if loc := se.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "Location: %s\n", loc.String())
	}
	fmt.Fprintln(r.out)

	if r.verbose && se.Unwrap() != nil {
		fmt.Fprintf(r.out, "Underlying cause: %s\n\n", se.Unwrap().Error())
	}

	if context := se.Context(); len(context) > 0 {
		r.printContext(context)
	}

	if suggestions := se.Suggestions(); len(suggestions) > 0 {
		r.printSuggestions(suggestions)
	}
}

// message strips the location prefix BaseError adds, since it is printed on
// its own line
func message(se errors.SnapcaseError) string {
	msg := se.Error()
	if loc := se.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

func (r *DiagnosticReporter) printHeader(code errors.ErrorCode) {
	title := "ERROR: " + code.String()
	color.New(color.FgRed, color.Bold).Fprintln(r.out, title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("-", len(title)))
}

// printContext prints context information with keys in a stable order
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprintf(r.out, "Context:\n")
	for _, key := range keys {
		fmt.Fprintf(r.out, "   %s: %v\n", formatContextKey(key), context[key])
	}
	fmt.Fprintf(r.out, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(r.out, "\n")
}

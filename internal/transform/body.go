package transform

import (
	"fmt"
	"strings"

	"github.com/toyz/snapcase/internal/models"
)

const (
	withSettings   = "WithSettings"
	settingsType   = "Settings"
	suffixField    = "SnapshotSuffix"
	strconvPackage = "strconv"
)

// rewriteBody replaces the body with a suffix computation followed by a
// snapshot-settings scope that runs the original body exactly once.
//
// The generated body evaluates, in order: the suffix from the context's
// Description, else its Case ordinal, else "0"; the settings scope; the
// original body inside a closure.
func (e *Expander) rewriteBody(fn *models.FunctionDefinition, binding string) (*models.FunctionDefinition, error) {
	insta, err := e.resolver.Resolve(e.opts.Snapshot)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteByte('\n')
	writeSuffix(&b, binding)

	scope := fmt.Sprintf("%s(%s{%s: %s}, func() {", insta.Ref(withSettings), insta.Ref(settingsType), suffixField, SuffixBinding)

	if len(fn.Results) == 0 {
		b.WriteString(scope)
		b.WriteString(fn.Body.Text)
		b.WriteString("})\n")
	} else {
		writeWithResults(&b, scope, fn)
	}

	fn.Body = models.Body{Text: b.String()}
	fn.RequireImport(models.ImportRequirement{Name: strconvPackage, Path: strconvPackage})
	fn.RequireImport(insta.Import())
	return fn, nil
}

func writeSuffix(b *strings.Builder, binding string) {
	fmt.Fprintf(b, "%s := \"0\"\n", SuffixBinding)
	fmt.Fprintf(b, "if %s.Description != nil {\n", binding)
	fmt.Fprintf(b, "%s = *%s.Description\n", SuffixBinding, binding)
	fmt.Fprintf(b, "} else if %s.Case != nil {\n", binding)
	fmt.Fprintf(b, "%s = %s.Itoa(*%s.Case)\n", SuffixBinding, strconvPackage, binding)
	b.WriteString("}\n")
}

// writeWithResults runs the original body as a function literal with the
// original result list, so its return statements keep their meaning, and
// carries the results out of the settings scope.
func writeWithResults(b *strings.Builder, scope string, fn *models.FunctionDefinition) {
	named := resultsNamed(fn.Results)

	targets := make([]string, len(fn.Results))
	for i, r := range fn.Results {
		if named {
			targets[i] = r.Name
			continue
		}
		targets[i] = fmt.Sprintf("%s%d", resultPrefix, i)
		fmt.Fprintf(b, "var %s %s\n", targets[i], r.Type)
	}

	b.WriteString(scope)
	fmt.Fprintf(b, "\n%s = func() %s {", strings.Join(targets, ", "), models.FormatResults(fn.Results, nil))
	b.WriteString(fn.Body.Text)
	b.WriteString("}()\n})\n")

	if named {
		b.WriteString("return\n")
		return
	}
	fmt.Fprintf(b, "return %s\n", strings.Join(targets, ", "))
}

// resultsNamed reports whether every result has a name that can be assigned
// and returned.
func resultsNamed(results []models.Parameter) bool {
	for _, r := range results {
		if !r.IsBindable() {
			return false
		}
	}
	return true
}

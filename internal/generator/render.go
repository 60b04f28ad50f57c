package generator

import (
	"strings"

	"github.com/toyz/snapcase/internal/annotations"
	"github.com/toyz/snapcase/internal/models"
)

// RenderFunction renders a function definition as Go source, doc comment
// included. The output is not gofmt-formatted.
func RenderFunction(fn *models.FunctionDefinition) string {
	var b strings.Builder

	writeDoc(&b, fn.Attributes)

	var recv, params []models.Parameter
	for _, p := range fn.Params {
		if p.Receiver {
			recv = append(recv, p)
		} else {
			params = append(params, p)
		}
	}

	b.WriteString("func ")
	if len(recv) > 0 {
		b.WriteString("(" + models.FormatParams(recv, annotations.FormatMarker) + ") ")
	}
	b.WriteString(fn.Name)
	b.WriteString(fn.TypeParams)
	b.WriteString("(" + models.FormatParams(params, annotations.FormatMarker) + ")")
	if results := models.FormatResults(fn.Results, annotations.FormatMarker); results != "" {
		b.WriteString(" " + results)
	}
	b.WriteString(" {")
	b.WriteString(fn.Body.Text)
	b.WriteString("}\n")

	return b.String()
}

// writeDoc writes prose lines first and directives after them, keeping the
// relative order within each group. This is the layout gofmt gives doc
// comments, so formatting does not move the directives again.
func writeDoc(b *strings.Builder, attrs []models.Attribute) {
	var prose, directives []string
	for _, attr := range attrs {
		if attr.IsDirective() {
			directives = append(directives, annotations.FormatDirective(attr))
		} else {
			prose = append(prose, attr.Comment)
		}
	}

	for _, line := range prose {
		b.WriteString(line + "\n")
	}
	if len(prose) > 0 && len(directives) > 0 && prose[len(prose)-1] != "//" {
		b.WriteString("//\n")
	}
	for _, line := range directives {
		b.WriteString(line + "\n")
	}
}

package generator

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"sort"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/imports"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
	"github.com/toyz/snapcase/internal/resolver"
)

// Generator implements the CodeGenerator interface. It splices rendered
// functions over their original text, adds the imports they require and
// formats the result the way goimports does, standard library first.
type Generator struct{}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// Apply returns the source of file with every rewrite applied. A file with no
// rewrites is returned unchanged.
func (g *Generator) Apply(file *models.SourceFile, rewrites []models.Rewrite) ([]byte, error) {
	if len(rewrites) == 0 {
		return file.Source, nil
	}

	out, err := splice(file.Source, rewrites)
	if err != nil {
		return nil, errors.WrapGenerateError(file.Path, err)
	}

	fset := token.NewFileSet()
	parsed, err := parser.ParseFile(fset, file.Path, out, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapGenerateError(file.Path, err).
			WithSuggestion("This is likely a bug in snapcase; rerun with -verbose and report the generated output")
	}

	for _, rw := range rewrites {
		for _, imp := range rw.Function.Imports {
			if imp.Path == "" {
				continue
			}
			ensureImport(fset, parsed, imp)
		}
	}

	var buf bytes.Buffer
	if err := format.Node(&buf, fset, parsed); err != nil {
		return nil, errors.WrapGenerateError(file.Path, err)
	}

	formatted, err := imports.Process(file.Path, buf.Bytes(), importOptions)
	if err != nil {
		return nil, errors.WrapGenerateError(file.Path, err)
	}
	return formatted, nil
}

// importOptions sorts and groups imports without resolving missing ones
var importOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// splice replaces each rewrite's byte range with its rendered function.
// Rewrites are applied back to front so earlier offsets stay valid.
func splice(src []byte, rewrites []models.Rewrite) ([]byte, error) {
	sorted := make([]models.Rewrite, len(rewrites))
	copy(sorted, rewrites)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start > sorted[j].Start
	})

	out := append([]byte(nil), src...)
	limit := len(src)
	for _, rw := range sorted {
		if rw.Start < 0 || rw.End < rw.Start || rw.End > limit {
			return nil, fmt.Errorf("rewrite of %s has invalid range [%d, %d)", rw.Function.Name, rw.Start, rw.End)
		}
		rendered := RenderFunction(rw.Function)

		next := make([]byte, 0, len(out)-(rw.End-rw.Start)+len(rendered))
		next = append(next, out[:rw.Start]...)
		next = append(next, rendered...)
		next = append(next, out[rw.End:]...)
		out = next
		limit = rw.Start
	}
	return out, nil
}

// ensureImport adds imp to file unless an import with the same path and the
// same local name is already present
func ensureImport(fset *token.FileSet, file *ast.File, imp models.ImportRequirement) {
	for _, spec := range file.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil || path != imp.Path {
			continue
		}
		if localName(spec, path) == imp.Name {
			return
		}
	}

	if imp.Name == "" || imp.Name == resolver.PackageName(imp.Path) {
		astutil.AddImport(fset, file, imp.Path)
		return
	}
	astutil.AddNamedImport(fset, file, imp.Name, imp.Path)
}

func localName(spec *ast.ImportSpec, path string) string {
	if spec.Name != nil {
		return spec.Name.Name
	}
	return resolver.PackageName(path)
}

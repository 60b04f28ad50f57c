package parser

import (
	stderrors "errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/toyz/snapcase/internal/annotations"
	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
)

// Parser implements the SourceParser interface
type Parser struct {
	annotations *annotations.ParticipleParser
	triggerText string
	trigger     []string
}

// NewParser creates a parser looking for DefaultTrigger
func NewParser() *Parser {
	return NewParserWithTrigger(DefaultTrigger)
}

// NewParserWithTrigger creates a parser looking for the given trigger
// directive, written without the leading slashes (e.g. "snapcase:test").
func NewParserWithTrigger(trigger string) *Parser {
	return &Parser{
		annotations: annotations.NewParticipleParser(),
		triggerText: trigger,
		trigger:     strings.Split(trigger, TriggerSeparator),
	}
}

// ParseFile reads and parses the Go file at path
func (p *Parser) ParseFile(path string) (*models.SourceFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return p.ParseSource(path, src)
}

// ParseSource parses source code. Each call uses its own FileSet so files can
// be parsed concurrently.
func (p *Parser) ParseSource(filename string, src []byte) (*models.SourceFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err).
			WithLocation(errors.SourceLocation{File: filename})
	}

	sf := &models.SourceFile{
		Path:        filename,
		Source:      src,
		FileSet:     fset,
		AST:         file,
		PackageName: file.Name.Name,
	}
	rep := NewErrorReporter(sf, p.triggerText)

	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		if !p.hasTrigger(fd) {
			p.checkNearTrigger(sf, rep, fd)
			continue
		}

		def, err := p.buildDefinition(sf, rep, fd)
		if err != nil {
			return nil, err
		}

		start := fd.Pos()
		if fd.Doc != nil {
			start = fd.Doc.Pos()
		}
		sf.Functions = append(sf.Functions, models.AnnotatedFunction{
			Definition: def,
			Start:      p.offset(sf, start),
			End:        p.offset(sf, fd.End()),
		})
	}

	return sf, nil
}

// hasTrigger reports whether the function's doc comment carries the trigger
func (p *Parser) hasTrigger(fd *ast.FuncDecl) bool {
	if fd.Doc == nil {
		return false
	}
	for _, c := range fd.Doc.List {
		if attr, err := p.annotations.ParseDirective(c.Text); err == nil && p.isTrigger(attr) {
			return true
		}
	}
	return false
}

// checkNearTrigger records a warning for doc lines that were probably meant
// to be the trigger
func (p *Parser) checkNearTrigger(sf *models.SourceFile, rep *ErrorReporter, fd *ast.FuncDecl) {
	if fd.Doc == nil {
		return
	}
	for _, c := range fd.Doc.List {
		if rep.IsNearTrigger(c.Text) {
			sf.Warnings = append(sf.Warnings, rep.ReportNearTrigger(fd.Name.Name, c.Text, c.Pos()))
		}
	}
}

func (p *Parser) isTrigger(attr models.Attribute) bool {
	if len(attr.Path) != len(p.trigger) {
		return false
	}
	for i, seg := range attr.Path {
		if seg != p.trigger[i] {
			return false
		}
	}
	return true
}

// buildDefinition converts a function declaration into the model. The body
// is captured as raw text between the braces.
func (p *Parser) buildDefinition(sf *models.SourceFile, rep *ErrorReporter, fd *ast.FuncDecl) (*models.FunctionDefinition, error) {
	if fd.Body == nil {
		return nil, rep.ReportMissingBody(fd.Name.Name, fd.Pos())
	}

	def := &models.FunctionDefinition{
		Name:     fd.Name.Name,
		Location: rep.Location(fd.Pos()),
	}

	for _, c := range fd.Doc.List {
		attr, err := p.annotations.ParseDirective(c.Text)
		switch {
		case err == nil && p.isTrigger(attr):
			continue
		case err == nil:
			def.Attributes = append(def.Attributes, attr)
		default:
			def.Attributes = append(def.Attributes, models.Attribute{Comment: c.Text})
		}
	}

	if fd.Recv != nil {
		recv, err := p.fieldList(sf, rep, def.Name, fd.Recv)
		if err != nil {
			return nil, err
		}
		for i := range recv {
			recv[i].Receiver = true
		}
		def.Params = append(def.Params, recv...)
	}

	if tp := fd.Type.TypeParams; tp != nil && tp.Opening.IsValid() {
		def.TypeParams = p.text(sf, tp.Opening, tp.Closing+1)
	}

	params, err := p.fieldList(sf, rep, def.Name, fd.Type.Params)
	if err != nil {
		return nil, err
	}
	def.Params = append(def.Params, params...)

	if fd.Type.Results != nil {
		results, err := p.fieldList(sf, rep, def.Name, fd.Type.Results)
		if err != nil {
			return nil, err
		}
		def.Results = results
	}

	def.Body = models.Body{Text: p.text(sf, fd.Body.Lbrace+1, fd.Body.Rbrace)}
	return def, nil
}

// fieldList flattens a field list into one Parameter per name. Comments that
// sit between the previous parameter and a name become that parameter's
// markers; comments after the last type are kept on the last parameter.
func (p *Parser) fieldList(sf *models.SourceFile, rep *ErrorReporter, function string, fields *ast.FieldList) ([]models.Parameter, error) {
	if fields == nil {
		return nil, nil
	}

	comments := p.commentsWithin(sf.AST, fields)
	lower := fields.Opening + 1
	if !fields.Opening.IsValid() {
		lower = fields.Pos()
	}

	var params []models.Parameter
	for _, field := range fields.List {
		typ := p.text(sf, field.Type.Pos(), field.Type.End())

		if len(field.Names) == 0 {
			markers, err := p.markers(rep, function, comments, lower, field.Type.Pos())
			if err != nil {
				return nil, err
			}
			params = append(params, models.Parameter{Markers: markers, Type: typ})
			lower = field.End()
			continue
		}

		for _, name := range field.Names {
			markers, err := p.markers(rep, function, comments, lower, name.Pos())
			if err != nil {
				return nil, err
			}
			params = append(params, models.Parameter{Markers: markers, Name: name.Name, Type: typ})
			lower = name.End()
		}
		lower = field.End()
	}

	if len(params) > 0 && fields.Closing.IsValid() {
		last := &params[len(params)-1]
		for _, c := range comments {
			if c.Pos() >= lower && c.End() <= fields.Closing {
				last.Trailing = append(last.Trailing, c.Text)
			}
		}
	}

	return params, nil
}

func (p *Parser) commentsWithin(file *ast.File, node ast.Node) []*ast.Comment {
	var out []*ast.Comment
	for _, group := range file.Comments {
		if group.End() < node.Pos() || group.Pos() > node.End() {
			continue
		}
		for _, c := range group.List {
			if c.Pos() >= node.Pos() && c.End() <= node.End() {
				out = append(out, c)
			}
		}
	}
	return out
}

func (p *Parser) markers(rep *ErrorReporter, function string, comments []*ast.Comment, from, to token.Pos) ([]models.Attribute, error) {
	var markers []models.Attribute
	for _, c := range comments {
		if c.Pos() < from || c.End() > to {
			continue
		}
		attr, err := p.annotations.ParseMarker(c.Text)
		if stderrors.Is(err, annotations.ErrNotAnnotation) {
			markers = append(markers, models.Attribute{Comment: c.Text})
			continue
		}
		if err != nil {
			return nil, rep.ReportMalformedMarker(function, c.Text, c.Pos(), err)
		}
		markers = append(markers, attr)
	}
	return markers, nil
}

func (p *Parser) offset(sf *models.SourceFile, pos token.Pos) int {
	return sf.FileSet.File(pos).Offset(pos)
}

func (p *Parser) text(sf *models.SourceFile, from, to token.Pos) string {
	return string(sf.Source[p.offset(sf, from):p.offset(sf, to)])
}

package annotations

import (
	stderrors "errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
)

// ErrNotAnnotation is returned for comments that are ordinary prose rather
// than directives or markers.
var ErrNotAnnotation = stderrors.New("comment is not an annotation")

// directivePrefix matches the comments gofmt treats as directives and leaves
// untouched, like //go:generate.
var directivePrefix = regexp.MustCompile(`^[a-z0-9]+:[a-z0-9]`)

// annotationSyntax is the grammar shared by //path:name directives and
// /*@name*/ parameter markers, once the comment delimiters are stripped.
type annotationSyntax struct {
	At   bool            `parser:"@At?"`
	Path []string        `parser:"@Ident ( Sep @Ident )*"`
	Args *annotationArgs `parser:"@@?"`
}

type annotationArgs struct {
	Pos    lexer.Position
	Tokens []string `parser:"@( Ident | Sep | At | Punct )+"`
}

// ParticipleParser parses annotation comments using alecthomas/participle
type ParticipleParser struct {
	parser *participle.Parser[annotationSyntax]
}

// NewParticipleParser creates a new annotation parser
func NewParticipleParser() *ParticipleParser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Sep", Pattern: `:`},
		{Name: "At", Pattern: `@`},
		{Name: "Ident", Pattern: `[\p{L}_][\p{L}\p{N}_]*`},
		{Name: "Punct", Pattern: `[^\s]`},
	})

	parser := participle.MustBuild[annotationSyntax](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &ParticipleParser{parser: parser}
}

// ParseDirective parses a function-level directive such as
// "//rstest:case 1 2". Directives follow the Go convention: no space after
// the slashes, a lower-case tool name and a colon-separated path written
// without spaces. Anything else is ErrNotAnnotation.
func (p *ParticipleParser) ParseDirective(comment string) (models.Attribute, error) {
	content, ok := strings.CutPrefix(comment, "//")
	if !ok || !directivePrefix.MatchString(content) {
		return models.Attribute{}, ErrNotAnnotation
	}

	syntax, err := p.parser.ParseString("", content)
	if err != nil || syntax.At || len(syntax.Path) < 2 || !pathAt(content, syntax.Path) {
		return models.Attribute{}, ErrNotAnnotation
	}

	return toAttribute(content, syntax), nil
}

// ParseMarker parses a parameter marker such as "/*@context*/".
// Block comments without a leading '@' are ErrNotAnnotation; a '@' followed
// by something that is not a path is a syntax error.
func (p *ParticipleParser) ParseMarker(comment string) (models.Attribute, error) {
	if !strings.HasPrefix(comment, "/*") || !strings.HasSuffix(comment, "*/") || len(comment) < 4 {
		return models.Attribute{}, ErrNotAnnotation
	}
	content := strings.TrimSpace(comment[2 : len(comment)-2])
	if !strings.HasPrefix(content, "@") {
		return models.Attribute{}, ErrNotAnnotation
	}

	syntax, err := p.parser.ParseString("", content)
	if err != nil {
		return models.Attribute{}, errors.WrapParseError("marker "+comment, err)
	}
	if !syntax.At {
		return models.Attribute{}, errors.ParseError("marker must start with '@': " + comment)
	}

	return toAttribute(content, syntax), nil
}

// pathAt reports whether content starts with path written contiguously and
// followed by whitespace or nothing
func pathAt(content string, path []string) bool {
	rest, ok := strings.CutPrefix(content, strings.Join(path, ":"))
	if !ok {
		return false
	}
	return rest == "" || unicode.IsSpace(rune(rest[0]))
}

func toAttribute(content string, syntax *annotationSyntax) models.Attribute {
	attr := models.Attribute{Path: syntax.Path}
	if syntax.Args != nil {
		attr.Args = strings.TrimSpace(content[syntax.Args.Pos.Offset:])
	}
	return attr
}

// FormatDirective renders a function attribute back to its comment form
func FormatDirective(attr models.Attribute) string {
	if !attr.IsDirective() {
		return attr.Comment
	}
	if attr.Args == "" {
		return "//" + attr.Name()
	}
	return "//" + attr.Name() + " " + attr.Args
}

// FormatMarker renders a parameter marker back to its comment form. Plain
// comments kept alongside markers are returned as-is; line comments get the
// newline they need to not swallow the parameter.
func FormatMarker(attr models.Attribute) string {
	if !attr.IsDirective() {
		if strings.HasPrefix(attr.Comment, "//") {
			return attr.Comment + "\n"
		}
		return attr.Comment
	}
	if attr.Args == "" {
		return "/*@" + attr.Name() + "*/"
	}
	return "/*@" + attr.Name() + " " + attr.Args + "*/"
}

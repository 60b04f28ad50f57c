package models

import (
	"strings"

	"github.com/toyz/snapcase/internal/errors"
)

// Attribute is a named marker attached to a function or a parameter.
//
// Directive attributes carry a Path (e.g. ["rstest", "rstest"] for
// //rstest:rstest) and optional raw Args. Plain doc-comment lines have no
// Path and keep their text in Comment so they survive the rewrite verbatim.
type Attribute struct {
	Path    []string
	Args    string
	Comment string
}

// NewDirective builds a directive attribute from its path segments
func NewDirective(path ...string) Attribute {
	return Attribute{Path: path}
}

// IsDirective reports whether the attribute is a parsed directive
func (a Attribute) IsDirective() bool {
	return len(a.Path) > 0
}

// Is reports whether the attribute is the single-segment marker name.
func (a Attribute) Is(name string) bool {
	return len(a.Path) == 1 && a.Path[0] == name
}

// Name returns the directive path joined with ":"
func (a Attribute) Name() string {
	return strings.Join(a.Path, ":")
}

// Clone returns a deep copy of the attribute
func (a Attribute) Clone() Attribute {
	c := a
	if a.Path != nil {
		c.Path = append([]string(nil), a.Path...)
	}
	return c
}

// Parameter is one entry of a function signature
type Parameter struct {
	Markers  []Attribute // inline /*@name*/ markers
	Name     string      // empty for unnamed parameters
	Type     string      // declared type, raw source text
	Receiver bool        // method receiver
	Trailing []string    // raw comments between the type and the closing parenthesis
}

// HasMarker reports whether the parameter carries the named marker
func (p Parameter) HasMarker(name string) bool {
	for _, m := range p.Markers {
		if m.Is(name) {
			return true
		}
	}
	return false
}

// IsBindable reports whether the parameter name can be referenced from the body
func (p Parameter) IsBindable() bool {
	return p.Name != "" && p.Name != "_"
}

// Clone returns a deep copy of the parameter
func (p Parameter) Clone() Parameter {
	c := p
	if p.Markers != nil {
		c.Markers = make([]Attribute, len(p.Markers))
		for i, m := range p.Markers {
			c.Markers[i] = m.Clone()
		}
	}
	if p.Trailing != nil {
		c.Trailing = append([]string(nil), p.Trailing...)
	}
	return c
}

// Body is the opaque text between a function's braces. It is copied, never
// interpreted.
type Body struct {
	Text string
}

// ImportRequirement is an import the rewritten function needs in its file
type ImportRequirement struct {
	Name string // local name used by the generated code
	Path string
}

// FunctionDefinition is the unit being transformed
type FunctionDefinition struct {
	Name       string
	Attributes []Attribute
	TypeParams string // raw type parameter list, brackets included
	Params     []Parameter
	Results    []Parameter
	Body       Body
	Imports    []ImportRequirement
	Location   errors.SourceLocation
}

// Receiver returns the receiver parameter if the function is a method
func (f *FunctionDefinition) Receiver() (Parameter, bool) {
	for _, p := range f.Params {
		if p.Receiver {
			return p, true
		}
	}
	return Parameter{}, false
}

// RequireImport records an import the rewritten function depends on.
// Duplicates and requirements without a path are ignored.
func (f *FunctionDefinition) RequireImport(req ImportRequirement) {
	if req.Path == "" {
		return
	}
	for _, imp := range f.Imports {
		if imp == req {
			return
		}
	}
	f.Imports = append(f.Imports, req)
}

// Clone returns a deep copy of the function definition
func (f *FunctionDefinition) Clone() *FunctionDefinition {
	c := *f
	if f.Attributes != nil {
		c.Attributes = make([]Attribute, len(f.Attributes))
		for i, a := range f.Attributes {
			c.Attributes[i] = a.Clone()
		}
	}
	c.Params = cloneParams(f.Params)
	c.Results = cloneParams(f.Results)
	c.Imports = append([]ImportRequirement(nil), f.Imports...)
	return &c
}

func cloneParams(params []Parameter) []Parameter {
	if params == nil {
		return nil
	}
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = p.Clone()
	}
	return out
}

package models

// SymbolPath is an absolute, alias-resolved reference to a framework root.
type SymbolPath struct {
	Logical    string // logical framework name, e.g. "insta"
	ImportPath string // Go import path of the framework package
	Qualifier  string // package identifier used by generated code, empty inside the framework package
	Self       bool   // generated code lives in the framework's own module
}

// Ref renders a qualified Go identifier such as insta.WithSettings
func (p SymbolPath) Ref(name string) string {
	if p.Qualifier == "" {
		return name
	}
	return p.Qualifier + "." + name
}

// Directive renders a directive path such as rstest:rstest. Without a
// qualifier the logical name names the tool.
func (p SymbolPath) Directive(name string) Attribute {
	if p.Qualifier == "" {
		return NewDirective(p.Logical, name)
	}
	return NewDirective(p.Qualifier, name)
}

// Import returns the import the generated code needs for this path. It has
// no Path when the code is compiled into the framework package itself.
func (p SymbolPath) Import() ImportRequirement {
	if p.Qualifier == "" {
		return ImportRequirement{}
	}
	return ImportRequirement{Name: p.Qualifier, Path: p.ImportPath}
}

// String renders the absolute form used in diagnostics
func (p SymbolPath) String() string {
	if p.Self {
		return "::" + p.Logical
	}
	return "::" + p.Qualifier
}

package resolver

import (
	"fmt"
	"go/ast"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/toyz/snapcase/internal/errors"
)

// GoModLookup resolves frameworks against a go.mod file and, optionally, the
// import aliases of the file being rewritten.
type GoModLookup struct {
	modulePath  string
	packagePath string            // import path of the package being rewritten, if known
	requires    []string          // required module paths, sorted
	frameworks  map[string]string // logical name -> configured import path
	aliases     map[string]string // import path -> local name in the current file
}

// NewGoModLookup builds a lookup from a parsed go.mod. frameworks maps logical
// names to import paths; names without an entry are matched against the last
// element of the module path and of each requirement.
func NewGoModLookup(mf *modfile.File, frameworks map[string]string) *GoModLookup {
	l := &GoModLookup{
		frameworks: make(map[string]string, len(frameworks)),
		aliases:    make(map[string]string),
	}
	if mf != nil && mf.Module != nil {
		l.modulePath = mf.Module.Mod.Path
	}
	if mf != nil {
		for _, req := range mf.Require {
			l.requires = append(l.requires, req.Mod.Path)
		}
	}
	sort.Strings(l.requires)
	for name, importPath := range frameworks {
		if importPath != "" {
			l.frameworks[name] = importPath
		}
	}
	return l
}

// ModulePath returns the path of the module the lookup was built from
func (l *GoModLookup) ModulePath() string {
	return l.modulePath
}

// WithModulePath returns a copy of the lookup that treats modulePath as the
// current module. The requirement list is kept.
func (l *GoModLookup) WithModulePath(modulePath string) *GoModLookup {
	c := *l
	c.modulePath = modulePath
	return &c
}

// WithPackage returns a copy of the lookup for files of the package with the
// given import path and package clause. A framework whose import path is the
// package's own resolves as Local. External test packages, named with a
// _test suffix, import the package under test like any other client.
func (l *GoModLookup) WithPackage(importPath, packageName string) *GoModLookup {
	c := *l
	c.packagePath = importPath
	if strings.HasSuffix(packageName, "_test") {
		c.packagePath = ""
	}
	return &c
}

// WithImports returns a copy of the lookup that knows the import aliases of a
// single file. Blank and dot imports do not count as aliases.
func (l *GoModLookup) WithImports(specs []*ast.ImportSpec) *GoModLookup {
	c := *l
	c.aliases = make(map[string]string, len(specs))
	for _, spec := range specs {
		if spec.Name == nil || spec.Name.Name == "_" || spec.Name.Name == "." {
			continue
		}
		importPath, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		c.aliases[importPath] = spec.Name.Name
	}
	return &c
}

// Lookup implements DependencyLookup
func (l *GoModLookup) Lookup(logicalName string) (Found, bool) {
	found, ok := l.lookup(logicalName)
	if ok && found.Itself && l.packagePath != "" && found.ImportPath == l.packagePath {
		found.Local = true
	}
	return found, ok
}

func (l *GoModLookup) lookup(logicalName string) (Found, bool) {
	if importPath, ok := l.frameworks[logicalName]; ok {
		if withinModule(l.modulePath, importPath) {
			return Found{Itself: true, ImportPath: importPath}, true
		}
		for _, req := range l.requires {
			if withinModule(req, importPath) {
				return Found{Name: l.aliases[importPath], ImportPath: importPath}, true
			}
		}
		return Found{}, false
	}

	if l.modulePath != "" && PackageName(l.modulePath) == logicalName {
		return Found{Itself: true, ImportPath: l.modulePath}, true
	}
	for _, req := range l.requires {
		if PackageName(req) == logicalName {
			return Found{Name: l.aliases[req], ImportPath: req}, true
		}
	}
	return Found{}, false
}

// PackageName returns the conventional package name for an import path: its
// last element with any major version suffix removed.
func PackageName(importPath string) string {
	prefix, _, ok := module.SplitPathVersion(importPath)
	if !ok || prefix == "" {
		prefix = importPath
	}
	return path.Base(prefix)
}

func withinModule(modulePath, importPath string) bool {
	if modulePath == "" {
		return false
	}
	return importPath == modulePath || strings.HasPrefix(importPath, modulePath+"/")
}

// FindGoMod searches for a go.mod file starting from dir and walking up
func FindGoMod(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}

	for {
		candidate := filepath.Join(current, "go.mod")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", errors.Newf(errors.ConfigurationErrorCode, "go.mod file not found above %s", dir).
		WithSuggestion("Run snapcase inside a Go module or pass -module")
}

// LoadGoMod reads and parses a go.mod file
func LoadGoMod(goModPath string) (*modfile.File, error) {
	content, err := os.ReadFile(goModPath)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", goModPath, err)
	}
	return ParseGoMod(goModPath, content)
}

// ParseGoMod parses go.mod content. The file must declare a module.
func ParseGoMod(goModPath string, content []byte) (*modfile.File, error) {
	mf, err := modfile.Parse(goModPath, content, nil)
	if err != nil {
		return nil, errors.WrapParseError(fmt.Sprintf("go.mod file %s", goModPath), err)
	}
	if mf.Module == nil {
		return nil, errors.ParseError("no module declaration found in go.mod").
			WithLocation(errors.SourceLocation{File: goModPath})
	}
	return mf, nil
}

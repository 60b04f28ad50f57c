package cli

import (
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/resolver"
	"github.com/toyz/snapcase/internal/utils"
)

// ModuleResolver finds the go.mod governing each rewritten file and turns it
// into a dependency lookup. Parsed go.mod files are cached and invalidated
// when they change on disk.
type ModuleResolver struct {
	customModule string
	frameworks   map[string]string
	cache        *utils.Cache[string, *modfile.File]
}

// NewModuleResolver creates a module resolver. A non-empty customModule
// replaces the module path declared in go.mod, and allows running outside a
// module altogether.
func NewModuleResolver(customModule string, frameworks map[string]string) *ModuleResolver {
	return &ModuleResolver{
		customModule: customModule,
		frameworks:   frameworks,
		cache:        utils.NewCache[string, *modfile.File](),
	}
}

// LookupFor returns the dependency lookup for files in dir declaring
// packageName. The lookup knows the import path of dir, so frameworks
// rewritten from inside their own package are not imported into it.
func (r *ModuleResolver) LookupFor(dir, packageName string) (*resolver.GoModLookup, error) {
	goModPath, err := resolver.FindGoMod(dir)
	if err != nil {
		if r.customModule == "" {
			return nil, err
		}
		return resolver.NewGoModLookup(nil, r.frameworks).WithModulePath(r.customModule), nil
	}

	mf, err := r.cache.GetOrLoad(goModPath, goModPath, func() (*modfile.File, error) {
		return resolver.LoadGoMod(goModPath)
	})
	if err != nil {
		return nil, err
	}

	lookup := resolver.NewGoModLookup(mf, r.frameworks)
	if r.customModule != "" {
		lookup = lookup.WithModulePath(r.customModule)
	}

	importPath, err := packagePath(lookup.ModulePath(), filepath.Dir(goModPath), dir)
	if err != nil {
		return nil, err
	}
	return lookup.WithPackage(importPath, packageName), nil
}

// packagePath joins the module path with the location of dir inside the
// module rooted at moduleDir
func packagePath(modulePath, moduleDir, dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", dir, err)
	}
	rel, err := filepath.Rel(moduleDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ConfigurationErrorCode, "%s is outside module %s", dir, modulePath)
	}
	return path.Join(modulePath, filepath.ToSlash(rel)), nil
}

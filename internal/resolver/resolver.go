// Package resolver turns logical framework names into the symbol paths that
// generated code uses to reference them.
package resolver

import (
	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
)

// Found describes where a framework was located in the dependency graph
type Found struct {
	Itself     bool   // the current module is the framework's own module
	Local      bool   // the generated code is compiled into the framework package
	Name       string // alias assigned by the consumer, empty when none is recorded
	ImportPath string
}

// DependencyLookup exposes the consumer's declared dependencies
type DependencyLookup interface {
	Lookup(logicalName string) (Found, bool)
}

// SymbolResolver resolves a logical framework name to a symbol path
type SymbolResolver interface {
	Resolve(logicalName string) (models.SymbolPath, error)
}

// Resolver is the DependencyLookup backed SymbolResolver.
// It holds no cache: every call consults the lookup again.
type Resolver struct {
	lookup DependencyLookup
}

// New creates a resolver over the given lookup
func New(lookup DependencyLookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the symbol path for logicalName, or a MissingDependency
// error when the framework is not reachable from the expansion context.
func (r *Resolver) Resolve(logicalName string) (models.SymbolPath, error) {
	found, ok := r.lookup.Lookup(logicalName)
	if !ok {
		return models.SymbolPath{}, errors.NewMissingDependencyError(logicalName)
	}
	return resolveFound(logicalName, found), nil
}

func resolveFound(logicalName string, found Found) models.SymbolPath {
	if found.Local {
		return models.SymbolPath{
			Logical:    logicalName,
			ImportPath: found.ImportPath,
			Self:       true,
		}
	}
	if found.Itself {
		return models.SymbolPath{
			Logical:    logicalName,
			ImportPath: found.ImportPath,
			Qualifier:  logicalName,
			Self:       true,
		}
	}

	qualifier := found.Name
	if qualifier == "" {
		qualifier = logicalName
	}
	return models.SymbolPath{
		Logical:    logicalName,
		ImportPath: found.ImportPath,
		Qualifier:  qualifier,
	}
}

// StaticLookup is a fixed lookup table, useful when no go.mod is available
type StaticLookup map[string]Found

// Lookup implements DependencyLookup
func (s StaticLookup) Lookup(logicalName string) (Found, bool) {
	found, ok := s[logicalName]
	return found, ok
}

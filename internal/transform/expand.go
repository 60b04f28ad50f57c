// Package transform rewrites test function definitions so parameterized cases
// record snapshots under distinct, per-case suffixes.
//
// Expansion runs three passes in a fixed order:
//
//  1. the attribute injector prepends the parameterization entry-point marker;
//  2. the context binder finds or synthesizes the case-context parameter;
//  3. the body rewriter wraps the original body in a snapshot-settings scope
//     keyed by a suffix derived from the case context.
//
// Each pass consumes the previous pass's output. A failure in any pass aborts
// the expansion and no rewritten function is returned.
package transform

import (
	"github.com/toyz/snapcase/internal/models"
	"github.com/toyz/snapcase/internal/resolver"
)

const (
	// DefaultContextBinding names the synthesized case-context parameter
	DefaultContextBinding = "__rstest_insta__ctx"
	// SuffixBinding names the local holding the computed snapshot suffix
	SuffixBinding = "__rstest_insta__suffix"
	// resultPrefix prefixes locals that carry unnamed results out of the scope
	resultPrefix = "__rstest_insta__r"
)

// Options configures the framework names the expander references
type Options struct {
	// Parameterization is the logical name of the parameterization framework
	Parameterization string
	// Snapshot is the logical name of the snapshot framework
	Snapshot string
	// ContextMarker is the parameter marker naming the case context
	ContextMarker string
	// Strict rejects functions with more than one context-marked parameter
	// instead of honoring the first one.
	Strict bool
}

// DefaultOptions returns the options for the rstest/insta pairing
func DefaultOptions() Options {
	return Options{
		Parameterization: "rstest",
		Snapshot:         "insta",
		ContextMarker:    "context",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Parameterization == "" {
		o.Parameterization = d.Parameterization
	}
	if o.Snapshot == "" {
		o.Snapshot = d.Snapshot
	}
	if o.ContextMarker == "" {
		o.ContextMarker = d.ContextMarker
	}
	return o
}

// Expander applies the rewrite passes to function definitions.
// It keeps no state between calls and is safe for concurrent use as long as
// its resolver is.
type Expander struct {
	resolver resolver.SymbolResolver
	opts     Options
}

// NewExpander creates an expander resolving frameworks through r
func NewExpander(r resolver.SymbolResolver, opts Options) *Expander {
	return &Expander{resolver: r, opts: opts.withDefaults()}
}

// Options returns the effective options
func (e *Expander) Options() Options {
	return e.opts
}

// Expand rewrites fn. The input is not modified.
func (e *Expander) Expand(fn *models.FunctionDefinition) (*models.FunctionDefinition, error) {
	out, err := e.injectAttribute(fn.Clone())
	if err != nil {
		return nil, err
	}

	out, binding, err := e.bindContext(out)
	if err != nil {
		return nil, err
	}

	return e.rewriteBody(out, binding)
}

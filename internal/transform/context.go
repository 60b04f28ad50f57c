package transform

import (
	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/models"
)

// contextType is the case-context type exported by the parameterization framework
const contextType = "Context"

// bindContext returns the function with exactly one context-marked parameter
// and the name the body can use to reach it.
//
// The first context-marked parameter wins. When it has no usable name it is
// renamed to DefaultContextBinding in place. Without any marked parameter a
// new one is inserted at position 0.
func (e *Expander) bindContext(fn *models.FunctionDefinition) (*models.FunctionDefinition, string, error) {
	idx, err := e.contextParam(fn)
	if err != nil {
		return nil, "", err
	}

	if idx >= 0 {
		if fn.Params[idx].IsBindable() {
			return fn, fn.Params[idx].Name, nil
		}
		fn.Params[idx].Name = DefaultContextBinding
		nameUnnamed(fn.Params)
		return fn, DefaultContextBinding, nil
	}

	rstest, err := e.resolver.Resolve(e.opts.Parameterization)
	if err != nil {
		return nil, "", err
	}

	ctx := models.Parameter{
		Markers: []models.Attribute{models.NewDirective(e.opts.ContextMarker)},
		Name:    DefaultContextBinding,
		Type:    rstest.Ref(contextType),
	}
	params := make([]models.Parameter, 0, len(fn.Params)+1)
	params = append(params, ctx)
	fn.Params = append(params, fn.Params...)
	nameUnnamed(fn.Params)
	fn.RequireImport(rstest.Import())

	return fn, DefaultContextBinding, nil
}

// contextParam scans the parameters in declared order and returns the index
// of the first one carrying the context marker, or -1.
func (e *Expander) contextParam(fn *models.FunctionDefinition) (int, error) {
	found := -1
	var candidates []string

	for i, p := range fn.Params {
		if p.Receiver {
			return -1, errors.NewUnsupportedReceiverError(fn.Name, fn.Location)
		}
		if !p.HasMarker(e.opts.ContextMarker) {
			continue
		}
		if found < 0 {
			found = i
		}
		candidates = append(candidates, p.Name)
	}

	if e.opts.Strict && len(candidates) > 1 {
		return -1, errors.NewMultipleContextCandidatesError(fn.Name, candidates, fn.Location)
	}
	return found, nil
}

// nameUnnamed gives blank names to unnamed parameters. Go does not allow a
// signature to mix named and unnamed parameters.
func nameUnnamed(params []models.Parameter) {
	for i := range params {
		if params[i].Name == "" && !params[i].Receiver {
			params[i].Name = "_"
		}
	}
}

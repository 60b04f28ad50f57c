package transform

import (
	"github.com/toyz/snapcase/internal/models"
)

// entryPoint is the parameterization framework's entry-point marker
const entryPoint = "rstest"

// injectAttribute prepends the parameterization entry-point marker. It must
// stay at index 0 so the framework sees the function before any other marker.
func (e *Expander) injectAttribute(fn *models.FunctionDefinition) (*models.FunctionDefinition, error) {
	rstest, err := e.resolver.Resolve(e.opts.Parameterization)
	if err != nil {
		return nil, err
	}

	attrs := make([]models.Attribute, 0, len(fn.Attributes)+1)
	attrs = append(attrs, rstest.Directive(entryPoint))
	fn.Attributes = append(attrs, fn.Attributes...)
	return fn, nil
}

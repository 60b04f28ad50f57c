package generator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/toyz/snapcase/internal/models"
	"github.com/toyz/snapcase/internal/transform"
)

func TestRenderFunction(t *testing.T) {
	tests := []struct {
		name     string
		fn       *models.FunctionDefinition
		expected string
	}{
		{
			name: "directives after prose",
			fn: &models.FunctionDefinition{
				Name: "TestX",
				Attributes: []models.Attribute{
					models.NewDirective("rstest", "rstest"),
					{Comment: "// TestX checks x"},
				},
				Params: []models.Parameter{
					{Markers: []models.Attribute{models.NewDirective("context")}, Name: "ctx", Type: "rstest.Context"},
					{Name: "n", Type: "int"},
				},
				Body: models.Body{Text: " check(n) "},
			},
			expected: "// TestX checks x\n//\n//rstest:rstest\nfunc TestX(/*@context*/ ctx rstest.Context, n int) { check(n) }\n",
		},
		{
			name: "existing separator is reused",
			fn: &models.FunctionDefinition{
				Name:       "TestY",
				Attributes: []models.Attribute{models.NewDirective("rstest", "rstest"), {Comment: "// doc"}, {Comment: "//"}},
				Body:       models.Body{Text: "\n"},
			},
			expected: "// doc\n//\n//rstest:rstest\nfunc TestY() {\n}\n",
		},
		{
			name: "receiver and results",
			fn: &models.FunctionDefinition{
				Name: "Check",
				Params: []models.Parameter{
					{Name: "s", Type: "*Suite", Receiver: true},
					{Name: "v", Type: "string"},
				},
				Results: []models.Parameter{{Type: "error"}},
				Body:    models.Body{Text: "\n\treturn nil\n"},
			},
			expected: "func (s *Suite) Check(v string) error {\n\treturn nil\n}\n",
		},
		{
			name: "type parameters and named results",
			fn: &models.FunctionDefinition{
				Name:       "Pick",
				TypeParams: "[T any]",
				Params:     []models.Parameter{{Name: "v", Type: "T"}},
				Results:    []models.Parameter{{Name: "out", Type: "T"}, {Name: "ok", Type: "bool"}},
				Body:       models.Body{Text: " return v, true "},
			},
			expected: "func Pick[T any](v T) (out T, ok bool) { return v, true }\n",
		},
		{
			name: "directive arguments",
			fn: &models.FunctionDefinition{
				Name:       "TestZ",
				Attributes: []models.Attribute{{Path: []string{"rstest", "case"}, Args: "1 2"}},
				Params:     []models.Parameter{{Markers: []models.Attribute{{Path: []string{"files"}, Args: `"*.txt"`}}, Name: "p", Type: "string"}},
			},
			expected: "//rstest:case 1 2\nfunc TestZ(/*@files \"*.txt\"*/ p string) {}\n",
		},
		{
			name: "trailing and result comments",
			fn: &models.FunctionDefinition{
				Name: "TestT",
				Params: []models.Parameter{
					{Name: "a", Type: "int"},
					{Name: "b", Type: "string", Trailing: []string{"/* last */", "// why"}},
				},
				Results: []models.Parameter{{Markers: []models.Attribute{{Comment: "/* only */"}}, Type: "error"}},
				Body:    models.Body{Text: " return nil "},
			},
			expected: "func TestT(a int, b string /* last */, // why\n) (/* only */ error) { return nil }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RenderFunction(tt.fn))
		})
	}
}

// localFrameworks resolves every framework to unqualified identifiers so the
// expanded code can run against stand-ins declared in the same package.
type localFrameworks struct{}

func (localFrameworks) Resolve(name string) (models.SymbolPath, error) {
	return models.SymbolPath{Logical: name}, nil
}

const harness = `package main

import "strconv"

type Context struct {
	Name        string
	Description *string
	Case        *int
}

type Settings struct {
	SnapshotSuffix string
}

var trace []string

func WithSettings(s Settings, f func()) {
	trace = append(trace, "suffix="+s.SnapshotSuffix)
	f()
}

%s
%s
%s
func Run() []string {
	desc, empty, n := "alpha", "", 3
	Snap(Context{Description: &desc}, "a")
	Snap(Context{Case: &n}, "b")
	Snap(Context{}, "c")
	Snap(Context{Description: &empty, Case: &n}, "d")
	trace = append(trace, strconv.Itoa(Sum(Context{Name: "sum"}, 2, 3)))
	q, err := Div(Context{Case: &n}, 7, 2)
	trace = append(trace, strconv.Itoa(q), strconv.FormatBool(err == nil))
	return trace
}
`

func TestRenderFunction_ExpandedCasesRun(t *testing.T) {
	expander := transform.NewExpander(localFrameworks{}, transform.DefaultOptions())

	sources := []*models.FunctionDefinition{
		{
			Name:   "Snap",
			Params: []models.Parameter{{Name: "in", Type: "string"}},
			Body:   models.Body{Text: "\n\ttrace = append(trace, \"body=\"+in)\n"},
		},
		{
			Name:    "Sum",
			Params:  []models.Parameter{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
			Results: []models.Parameter{{Type: "int"}},
			Body:    models.Body{Text: " return a + b "},
		},
		{
			Name: "Div",
			Params: []models.Parameter{
				{Markers: []models.Attribute{models.NewDirective("context")}, Name: "ctx", Type: "Context"},
				{Name: "a", Type: "int"},
				{Name: "b", Type: "int"},
			},
			Results: []models.Parameter{{Name: "q", Type: "int"}, {Name: "err", Type: "error"}},
			Body:    models.Body{Text: "\n\tq = a / b\n\treturn\n"},
		},
	}

	rendered := make([]any, len(sources))
	for i, fn := range sources {
		out, err := expander.Expand(fn)
		require.NoError(t, err)
		rendered[i] = RenderFunction(out)
	}

	i := interp.New(interp.Options{})
	require.NoError(t, i.Use(stdlib.Symbols))

	src := fmt.Sprintf(harness, rendered...)
	_, err := i.Eval(src)
	require.NoError(t, err, src)

	v, err := i.Eval("main.Run")
	require.NoError(t, err)
	run, ok := v.Interface().(func() []string)
	require.True(t, ok)

	assert.Equal(t, []string{
		"suffix=alpha", "body=a",
		"suffix=3", "body=b",
		"suffix=0", "body=c",
		"suffix=", "body=d",
		"suffix=0", "5",
		"suffix=3", "3", "true",
	}, run())
}

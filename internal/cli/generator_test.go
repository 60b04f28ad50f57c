package cli

import (
	"bytes"
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/utils"
)

const calcTest = `package calc_test

import (
	"testing"

	"github.com/acme/insta"
)

// TestDouble snapshots doubled values.
//
//snapcase:test
func TestDouble(t *testing.T, a int) {
	insta.AssertSnapshot(t, a*2)
}
`

const plainTest = `package calc_test

import "testing"

func TestPlain(t *testing.T) {}
`

const methodTest = `package calc_test

type suite struct{}

//snapcase:test
func (s *suite) TestMethod(a int) {}
`

const nearTriggerTest = `package calc_test

// snapcase:test
func TestNear(a int) {}
`

type project struct {
	root string
}

func newProject(t *testing.T, files map[string]string) *project {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(testGoMod), 0644))
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return &project{root: root}
}

func (p *project) path(name string) string {
	return filepath.Join(p.root, filepath.FromSlash(name))
}

func (p *project) read(t *testing.T, name string) string {
	t.Helper()
	content, err := os.ReadFile(p.path(name))
	require.NoError(t, err)
	return string(content)
}

func runGenerator(t *testing.T, config Config) (*Generator, string, error) {
	t.Helper()
	diagnostics := utils.NewDiagnosticSystem(utils.DiagnosticDebug)
	diagnostics.SetOutput(io.Discard)

	g := NewGenerator(config, diagnostics)
	g.Reporter().SetOutput(io.Discard)
	var stdout bytes.Buffer
	g.SetOutput(&stdout)

	err := g.Run(context.Background())
	return g, stdout.String(), err
}

func projectConfig(p *project) Config {
	config := DefaultConfig()
	config.Paths = []string{p.root + "/..."}
	return config
}

func TestGenerator_Run_Stdout(t *testing.T) {
	p := newProject(t, map[string]string{
		"calc_test.go":        calcTest,
		"plain/plain_test.go": plainTest,
	})

	g, out, err := runGenerator(t, projectConfig(p))
	require.NoError(t, err)

	assert.Contains(t, out, "//rstest:rstest\nfunc TestDouble(/*@context*/ __rstest_insta__ctx rstest.Context, t *testing.T, a int) {")
	assert.Contains(t, out, "insta.WithSettings(insta.Settings{SnapshotSuffix: __rstest_insta__suffix}, func() {")
	assert.Contains(t, out, `"github.com/acme/rstest"`)
	assert.Contains(t, out, `"strconv"`)
	assert.NotContains(t, out, "TestPlain", "unchanged files are not printed")
	assert.NotContains(t, out, "//snapcase:test")

	_, err = parser.ParseFile(token.NewFileSet(), "out.go", out, parser.ParseComments)
	assert.NoError(t, err, "output must be valid Go")

	assert.Equal(t, calcTest, p.read(t, "calc_test.go"), "stdout mode leaves files alone")

	summary := g.GetSummary()
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, []string{p.path("calc_test.go")}, summary.FilesChanged)
	assert.Equal(t, 1, summary.FunctionsRewritten)
	assert.Zero(t, summary.Failures)
}

func TestGenerator_Run_Write(t *testing.T) {
	p := newProject(t, map[string]string{"calc_test.go": calcTest})

	config := projectConfig(p)
	config.Write = true
	config.List = true
	_, out, err := runGenerator(t, config)
	require.NoError(t, err)

	assert.Equal(t, p.path("calc_test.go")+"\n", out)
	rewritten := p.read(t, "calc_test.go")
	assert.Contains(t, rewritten, "//rstest:rstest")

	// a second run finds no trigger and changes nothing
	_, out, err = runGenerator(t, config)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, rewritten, p.read(t, "calc_test.go"))
}

func TestGenerator_Run_ListAndDiff(t *testing.T) {
	p := newProject(t, map[string]string{"calc_test.go": calcTest})

	config := projectConfig(p)
	config.Diff = true
	_, out, err := runGenerator(t, config)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "--- a/"), out)
	assert.Contains(t, out, "-//snapcase:test\n")
	assert.Contains(t, out, "+//rstest:rstest\n")
	assert.Equal(t, calcTest, p.read(t, "calc_test.go"))
}

func TestGenerator_Run_CollectsFailures(t *testing.T) {
	p := newProject(t, map[string]string{
		"calc_test.go":   calcTest,
		"method_test.go": methodTest,
		"broken_test.go": "package calc_test\n\nfunc {",
	})

	config := projectConfig(p)
	config.Write = true
	g, _, err := runGenerator(t, config)
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.ErrorAs(t, err, &multi)
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.UnsupportedReceiverErrorCode))
	assert.True(t, multi.HasCode(errors.SyntaxErrorCode))

	assert.Equal(t, methodTest, p.read(t, "method_test.go"), "failing files are not written")
	assert.Contains(t, p.read(t, "calc_test.go"), "//rstest:rstest", "other files still succeed")
	assert.Equal(t, 2, g.GetSummary().Failures)
}

func TestGenerator_Run_MissingDependency(t *testing.T) {
	p := newProject(t, map[string]string{"calc_test.go": calcTest})

	config := projectConfig(p)
	config.Snapshot = "golden"
	_, out, err := runGenerator(t, config)
	require.Error(t, err)

	assert.True(t, errors.HasCode(err, errors.MissingDependencyErrorCode))
	assert.Contains(t, err.Error(), "calc_test.go:12:1")
	assert.Empty(t, out)
}

func TestGenerator_Run_NearTriggerWarning(t *testing.T) {
	p := newProject(t, map[string]string{"near_test.go": nearTriggerTest})

	g, out, err := runGenerator(t, projectConfig(p))
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 1, g.GetSummary().Warnings)
}

func TestGenerator_Run_CustomTrigger(t *testing.T) {
	src := strings.Replace(calcTest, "//snapcase:test", "//acme:snap", 1)
	p := newProject(t, map[string]string{"calc_test.go": src})

	config := projectConfig(p)
	config.Trigger = "acme:snap"
	_, out, err := runGenerator(t, config)
	require.NoError(t, err)
	assert.Contains(t, out, "//rstest:rstest")
	assert.NotContains(t, out, "//acme:snap")
}

func TestGenerator_Run_Cancelled(t *testing.T) {
	p := newProject(t, map[string]string{"calc_test.go": calcTest})

	diagnostics := utils.NewQuietDiagnostics()
	diagnostics.SetOutput(io.Discard)
	g := NewGenerator(projectConfig(p), diagnostics)
	g.SetOutput(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
}

func TestGenerator_Run_WarningsInPathOrder(t *testing.T) {
	files := make(map[string]string)
	var names []string
	for i := 0; i < 16; i++ {
		name := fmt.Sprintf("near%02d_test.go", i)
		names = append(names, name)
		files[name] = strings.Replace(nearTriggerTest, "TestNear", fmt.Sprintf("TestNear%02d", i), 1)
	}
	files["bad_method_test.go"] = "package calc_test\n\ntype suite struct{}\n\n// snapcase:test\nfunc (s *suite) TestA() {}\n\n//snapcase:test\nfunc (s *suite) TestB() {}\n"
	p := newProject(t, files)

	reporter, buf := newTestReporter(t, false)
	diagnostics := utils.NewQuietDiagnostics()
	diagnostics.SetOutput(io.Discard)

	config := projectConfig(p)
	config.Jobs = 16
	g := NewGenerator(config, diagnostics)
	g.reporter = reporter
	g.SetOutput(io.Discard)

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, g.GetSummary().Failures)
	assert.Equal(t, 17, g.GetSummary().Warnings)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 17)
	assert.True(t, strings.HasPrefix(lines[0], "! "+p.path("bad_method_test.go")+":5:1: "), lines[0])
	for i, name := range names {
		line := lines[i+1]
		assert.True(t, strings.HasPrefix(line, "! "+p.path(name)+":3:1: "), line)
		assert.Equal(t, 1, strings.Count(line, "! "), line)
	}
}

const frameworkGoMod = `module github.com/acme/insta

go 1.22

require github.com/acme/rstest v0.9.0
`

const selfTest = `package insta

//snapcase:test
func TestSelf(a int) {
	AssertSnapshot(a)
}
`

func TestGenerator_Run_FrameworkPackage(t *testing.T) {
	p := newProject(t, map[string]string{
		"self_test.go":     selfTest,
		"external_test.go": strings.Replace(selfTest, "package insta", "package insta_test", 1),
	})
	require.NoError(t, os.WriteFile(p.path("go.mod"), []byte(frameworkGoMod), 0644))

	config := projectConfig(p)
	config.Write = true
	_, _, err := runGenerator(t, config)
	require.NoError(t, err)

	self := p.read(t, "self_test.go")
	assert.NotContains(t, self, `"github.com/acme/insta"`)
	assert.Contains(t, self, "\tWithSettings(Settings{SnapshotSuffix: __rstest_insta__suffix}, func() {")
	assert.Contains(t, self, "__rstest_insta__ctx rstest.Context")
	assert.Contains(t, self, `"github.com/acme/rstest"`)

	external := p.read(t, "external_test.go")
	assert.Contains(t, external, `"github.com/acme/insta"`)
	assert.Contains(t, external, "insta.WithSettings(insta.Settings{")
}

// The framework module below has no requirements, so it builds offline.
var buildableFramework = map[string]string{
	"go.mod": "module github.com/acme/insta\n\ngo 1.21\n",
	"insta.go": `package insta

type Settings struct {
	SnapshotSuffix string
}

var suffixes []string

func WithSettings(s Settings, f func()) {
	suffixes = append(suffixes, s.SnapshotSuffix)
	f()
}
`,
	"rstest/rstest.go": `package rstest

type Context struct {
	Name        string
	Description *string
	Case        *int
}
`,
	"insta_test.go": `package insta

import "testing"

//snapcase:test
func double(a int) int {
	return a * 2
}

func TestDouble(t *testing.T) {
	n := 2
	if got := double(rstest.Context{Case: &n}, 21); got != 42 {
		t.Fatalf("double = %d", got)
	}
	if len(suffixes) != 1 || suffixes[0] != "2" {
		t.Fatalf("suffixes = %v", suffixes)
	}
}
`,
}

func TestGenerator_Run_FrameworkPackageBuilds(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}
	goTool, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go tool not found")
	}

	p := newProject(t, buildableFramework)

	config := projectConfig(p)
	config.Frameworks = map[string]string{"rstest": "github.com/acme/insta/rstest"}
	config.Write = true
	_, _, err = runGenerator(t, config)
	require.NoError(t, err)
	assert.NotContains(t, p.read(t, "insta_test.go"), `"github.com/acme/insta"`)

	cmd := exec.Command(goTool, "test", "./...")
	cmd.Dir = p.root
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOFLAGS=-mod=mod", "GOTOOLCHAIN=local")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "%s\n%s", out, p.read(t, "insta_test.go"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrClosedPipe
}

func TestGenerator_Run_StdoutFailure(t *testing.T) {
	p := newProject(t, map[string]string{"calc_test.go": calcTest})

	diagnostics := utils.NewQuietDiagnostics()
	diagnostics.SetOutput(io.Discard)
	g := NewGenerator(projectConfig(p), diagnostics)
	g.SetOutput(failingWriter{})

	err := g.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileSystemErrorCode), err.Error())
	assert.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, 1, g.GetSummary().Failures)
	assert.Empty(t, g.GetSummary().FilesChanged)
}

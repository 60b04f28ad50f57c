package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/generator"
	"github.com/toyz/snapcase/internal/models"
	"github.com/toyz/snapcase/internal/parser"
	"github.com/toyz/snapcase/internal/resolver"
	"github.com/toyz/snapcase/internal/transform"
	"github.com/toyz/snapcase/internal/utils"
)

// Generator coordinates a snapcase run: scan, parse, expand, splice, emit
type Generator struct {
	config         Config
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	parser         parser.SourceParser
	codeGenerator  generator.CodeGenerator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	stdout         io.Writer

	mu      sync.Mutex
	summary GenerationSummary
}

// GenerationSummary contains information about a finished run
type GenerationSummary struct {
	FilesScanned       int
	FilesChanged       []string
	FunctionsRewritten int
	Warnings           int
	Failures           int
}

// FileResult is the outcome of rewriting a single file
type FileResult struct {
	Path      string
	Original  []byte
	Output    []byte
	Functions int
	Warnings  []errors.SnapcaseError
}

// Changed reports whether the rewrite altered the file
func (r *FileResult) Changed() bool {
	return !bytes.Equal(r.Original, r.Output)
}

// NewGenerator creates a generator for config
func NewGenerator(config Config, diagnostics *utils.DiagnosticSystem) *Generator {
	return &Generator{
		config:         config,
		scanner:        NewDirectoryScanner(config.TestsOnly),
		moduleResolver: NewModuleResolver(config.ModuleName, config.Frameworks),
		parser:         parser.NewParserWithTrigger(config.Trigger),
		codeGenerator:  generator.NewGenerator(),
		reporter:       NewDiagnosticReporter(config.Verbose),
		diagnostics:    diagnostics,
		stdout:         os.Stdout,
	}
}

// SetOutput redirects rewritten sources, listings and diffs to w
func (g *Generator) SetOutput(w io.Writer) {
	g.stdout = w
}

// Reporter returns the reporter used for warnings and errors
func (g *Generator) Reporter() *DiagnosticReporter {
	return g.reporter
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() GenerationSummary {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.summary
}

// Run processes every file named by the configuration. Files are rewritten
// in parallel; warnings and output are emitted in path order once all files
// are done. Failures are collected per file and returned together as a
// MultipleErrors. A failing file produces no output.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = GenerationSummary{}

	g.diagnostics.Debug("Scanning paths: %v", g.config.Paths)
	if g.config.ModuleName != "" {
		g.diagnostics.Debug("Using custom module name: %s", g.config.ModuleName)
	}

	files, err := g.scanner.ScanFiles(g.config.Paths)
	if err != nil {
		return err
	}
	g.summary.FilesScanned = len(files)
	g.diagnostics.Verbose("Found %d Go files", len(files))

	results := make([]*FileResult, len(files))
	failures := errors.NewMultipleErrors()

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Jobs)
	for i, path := range files {
		i, path := i, path
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := g.ProcessFile(path)
			results[i] = result
			if err != nil {
				g.mu.Lock()
				failures.Add(asSnapcaseError(err))
				g.summary.Failures++
				g.mu.Unlock()
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for _, result := range results {
		if result == nil {
			continue
		}
		for _, warning := range result.Warnings {
			g.reporter.ReportWarning(warning)
		}
		g.summary.Warnings += len(result.Warnings)
	}

	for _, result := range results {
		if result == nil || !result.Changed() {
			continue
		}
		if err := g.emit(result); err != nil {
			failures.Add(asSnapcaseError(err))
			g.summary.Failures++
			continue
		}
		g.summary.FilesChanged = append(g.summary.FilesChanged, result.Path)
		g.summary.FunctionsRewritten += result.Functions
	}

	g.diagnostics.Verbose("Finished in %s", time.Since(startTime).Round(time.Millisecond))
	return failures.ErrOrNil()
}

// ProcessFile rewrites every triggered function in one file. Either all of
// them expand or the file fails as a whole. Once the file parses, the result
// carries its warnings even when an error is returned; its Output is then
// the original source.
func (g *Generator) ProcessFile(path string) (*FileResult, error) {
	sf, err := g.parser.ParseFile(path)
	if err != nil {
		return nil, err
	}

	result := &FileResult{Path: path, Original: sf.Source, Output: sf.Source, Warnings: sf.Warnings}
	if len(sf.Functions) == 0 {
		return result, nil
	}

	lookup, err := g.moduleResolver.LookupFor(filepath.Dir(path), sf.PackageName)
	if err != nil {
		return result, err
	}
	expander := transform.NewExpander(resolver.New(lookup.WithImports(sf.AST.Imports)), g.config.ExpanderOptions())

	rewrites, err := g.expand(expander, sf)
	if err != nil {
		return result, err
	}

	output, err := g.codeGenerator.Apply(sf, rewrites)
	if err != nil {
		return result, err
	}

	g.diagnostics.Debug("%s: rewrote %d functions", path, len(rewrites))
	result.Output = output
	result.Functions = len(rewrites)
	return result, nil
}

func (g *Generator) expand(expander *transform.Expander, sf *models.SourceFile) ([]models.Rewrite, error) {
	failures := errors.NewMultipleErrors()
	rewrites := make([]models.Rewrite, 0, len(sf.Functions))

	for _, af := range sf.Functions {
		fn, err := expander.Expand(af.Definition)
		if err != nil {
			se := asSnapcaseError(err)
			if base, ok := se.(*errors.BaseError); ok && base.Location().IsEmpty() {
				base.WithLocation(af.Definition.Location).WithContext("function", af.Definition.Name)
			}
			failures.Add(se)
			continue
		}
		rewrites = append(rewrites, models.Rewrite{Start: af.Start, End: af.End, Function: fn})
	}

	if err := failures.ErrOrNil(); err != nil {
		return nil, err
	}
	return rewrites, nil
}

// emit writes one changed file according to the output mode
func (g *Generator) emit(result *FileResult) error {
	switch {
	case g.config.List || g.config.Diff:
		if g.config.List {
			fmt.Fprintln(g.stdout, result.Path)
		}
		if g.config.Diff {
			diff, err := utils.UnifiedDiff(result.Path, result.Original, result.Output)
			if err != nil {
				return errors.WrapGenerateError("diff for "+result.Path, err)
			}
			io.WriteString(g.stdout, diff)
		}
		if g.config.Write {
			return g.write(result)
		}
		return nil
	case g.config.Write:
		return g.write(result)
	default:
		if _, err := g.stdout.Write(result.Output); err != nil {
			return errors.New(errors.FileSystemErrorCode, "failed to write output for "+result.Path).WithCause(err)
		}
		return nil
	}
}

func (g *Generator) write(result *FileResult) error {
	if err := utils.WriteFileAtomic(result.Path, result.Output); err != nil {
		return errors.WrapFileSystemError("write", result.Path, err)
	}
	g.diagnostics.Verbose("Rewrote %s", result.Path)
	return nil
}

func asSnapcaseError(err error) errors.SnapcaseError {
	var se errors.SnapcaseError
	if stderrors.As(err, &se) {
		return se
	}
	return errors.Wrap(errors.UnknownErrorCode, "unexpected failure", err)
}

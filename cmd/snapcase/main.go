package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/toyz/snapcase/internal/cli"
	"github.com/toyz/snapcase/internal/utils"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapcase", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		writeFlag   = fs.Bool("w", false, "Write the result to the source file instead of stdout")
		listFlag    = fs.Bool("l", false, "List files whose contents would change")
		diffFlag    = fs.Bool("d", false, "Print diffs instead of rewriting files")
		configFlag  = fs.String("config", "", "Configuration file (defaults to "+cli.DefaultConfigFile+" when present)")
		moduleFlag  = fs.String("module", "", "Module path to resolve frameworks against (defaults to go.mod module)")
		triggerFlag = fs.String("trigger", "", "Directive marking functions to rewrite (default snapcase:test)")
		strictFlag  = fs.Bool("strict", false, "Reject functions with more than one context-marked parameter")
		jobsFlag    = fs.Int("j", 0, "Number of files processed in parallel (default 4)")
		verboseFlag = fs.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = fs.Bool("quiet", false, "Only show errors")
		helpFlag    = fs.Bool("help", false, "Show help information")
	)

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: snapcase [options] <paths...>\n\n")
		fmt.Fprintf(stderr, "Rewrites //snapcase:test functions so every parameterized case records its\n")
		fmt.Fprintf(stderr, "snapshots under its own suffix.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nArguments:\n")
		fmt.Fprintf(stderr, "  paths              Go files, directories or Go-style patterns like './...'\n")
		fmt.Fprintf(stderr, "\nPath Patterns:\n")
		fmt.Fprintf(stderr, "  ./...              Every package below the current directory\n")
		fmt.Fprintf(stderr, "  ./internal/calc    Only the _test.go files of one directory (no recursion)\n")
		fmt.Fprintf(stderr, "  calc_test.go       A single file\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  snapcase calc_test.go                        # Print the rewritten file\n")
		fmt.Fprintf(stderr, "  snapcase -l ./...                            # List files that would change\n")
		fmt.Fprintf(stderr, "  snapcase -d ./internal/...                   # Show the changes as a diff\n")
		fmt.Fprintf(stderr, "  snapcase -w ./...                            # Rewrite files in place\n")
		fmt.Fprintf(stderr, "  snapcase -module github.com/acme/insta -w .  # Rewrite tests of the framework itself\n")
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if *helpFlag {
		fs.Usage()
		return exitOK
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticWarn)
	}
	if stderr != io.Writer(os.Stderr) {
		diagnostics.SetOutput(stderr)
	}

	configPath, required := cli.DefaultConfigFile, false
	if *configFlag != "" {
		configPath, required = *configFlag, true
	}
	config, err := cli.LoadConfig(configPath, required)
	if err != nil {
		reportError(stderr, *verboseFlag, err)
		return exitUsage
	}

	// flags override the file only when given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "module":
			config.ModuleName = *moduleFlag
		case "trigger":
			config.Trigger = *triggerFlag
		case "strict":
			config.Strict = *strictFlag
		case "j":
			config.Jobs = *jobsFlag
		}
	})
	config.Paths = fs.Args()
	config.Write = *writeFlag
	config.List = *listFlag
	config.Diff = *diffFlag
	config.Verbose = *verboseFlag

	if err := config.Validate(); err != nil {
		reportError(stderr, *verboseFlag, err)
		if len(config.Paths) == 0 {
			fmt.Fprintln(stderr)
			fs.Usage()
		}
		return exitUsage
	}

	verbose := diagnostics.Level() >= utils.DiagnosticVerbose
	if verbose {
		diagnostics.Header("parameterized snapshot rewriter")
		diagnostics.Section("Configuration")
		diagnostics.List("Paths: %s", strings.Join(config.Paths, ", "))
		diagnostics.List("Trigger: //%s", config.Trigger)
		diagnostics.List("Frameworks: %s, %s", config.Parameterization, config.Snapshot)
		if config.ModuleName != "" {
			diagnostics.List("Custom module: %s", config.ModuleName)
		}
	}

	generator := cli.NewGenerator(config, diagnostics)
	generator.SetOutput(stdout)
	generator.Reporter().SetOutput(stderr)

	err = generator.Run(ctx)

	summary := generator.GetSummary()
	diagnostics.Summary("snapcase", map[string]interface{}{
		"Files scanned":       summary.FilesScanned,
		"Files changed":       len(summary.FilesChanged),
		"Functions rewritten": summary.FunctionsRewritten,
		"Warnings":            summary.Warnings,
		"Failures":            summary.Failures,
	})

	if verbose && len(summary.FilesChanged) > 0 {
		diagnostics.Section("Changed files")
		diagnostics.Indent()
		for _, file := range summary.FilesChanged {
			diagnostics.Item("%s", file)
		}
		diagnostics.Unindent()
	}

	if summary.Warnings > 0 {
		diagnostics.Warn("%d directive-like comments were skipped; write the trigger as //%s", summary.Warnings, config.Trigger)
	}

	if err != nil {
		generator.Reporter().ReportError(err)
		return exitFailed
	}

	if summary.FunctionsRewritten == 0 {
		diagnostics.Info("No //%s functions found", config.Trigger)
	} else {
		diagnostics.Success("Rewrote %d functions in %d files", summary.FunctionsRewritten, len(summary.FilesChanged))
	}
	return exitOK
}

func reportError(stderr io.Writer, verbose bool, err error) {
	reporter := cli.NewDiagnosticReporter(verbose)
	reporter.SetOutput(stderr)
	reporter.ReportError(err)
}

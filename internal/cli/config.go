package cli

import (
	stderrors "errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/toyz/snapcase/internal/errors"
	"github.com/toyz/snapcase/internal/parser"
	"github.com/toyz/snapcase/internal/transform"
	"github.com/toyz/snapcase/internal/utils"
)

// DefaultConfigFile is read from the working directory when -config is not given
const DefaultConfigFile = ".snapcase.yaml"

// Config holds the configuration for a snapcase run. File values are loaded
// first; command-line flags override them.
type Config struct {
	// Paths is the list of files, directories and ./... patterns to rewrite
	Paths []string `yaml:"-"`

	// Trigger is the directive marking functions to rewrite, without slashes
	Trigger string `yaml:"trigger"`

	// ContextMarker names the parameter marker carrying the case context
	ContextMarker string `yaml:"context_marker"`

	// Parameterization and Snapshot are the logical framework names
	Parameterization string `yaml:"parameterization"`
	Snapshot         string `yaml:"snapshot"`

	// Frameworks maps logical framework names to import paths, for modules
	// whose package does not live at the module root
	Frameworks map[string]string `yaml:"frameworks"`

	// TestsOnly restricts directory scans to _test.go files
	TestsOnly bool `yaml:"tests_only"`

	// Strict rejects functions with more than one context-marked parameter
	Strict bool `yaml:"strict"`

	// ModuleName overrides the module path read from go.mod
	ModuleName string `yaml:"module"`

	// Jobs bounds the number of files processed in parallel
	Jobs int `yaml:"jobs"`

	Write   bool `yaml:"-"`
	List    bool `yaml:"-"`
	Diff    bool `yaml:"-"`
	Verbose bool `yaml:"-"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	opts := transform.DefaultOptions()
	return Config{
		Trigger:          parser.DefaultTrigger,
		ContextMarker:    opts.ContextMarker,
		Parameterization: opts.Parameterization,
		Snapshot:         opts.Snapshot,
		Frameworks:       map[string]string{},
		TestsOnly:        true,
		Jobs:             4,
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// A missing file is only an error when required is set.
func LoadConfig(path string, required bool) (Config, error) {
	config := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		if !required && stderrors.Is(err, os.ErrNotExist) {
			return config, nil
		}
		return config, errors.WrapFileSystemError("open", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil && !stderrors.Is(err, io.EOF) {
		return config, errors.WrapConfigurationError(path, "decode", err).
			WithLocation(errors.SourceLocation{File: path}).
			WithSuggestion("Known keys: trigger, context_marker, parameterization, snapshot, frameworks, tests_only, strict, module, jobs")
	}
	if config.Frameworks == nil {
		config.Frameworks = map[string]string{}
	}

	return config, nil
}

// Validate checks the configuration before any file is touched
func (c Config) Validate() error {
	identifier := func(field string) *utils.ValidatorChain[string] {
		return utils.NewValidatorChain(utils.NotEmpty(field)).Add(utils.IsValidGoIdentifier(field))
	}

	checks := []struct {
		chain *utils.ValidatorChain[string]
		value string
	}{
		{utils.NewValidatorChain(utils.NotEmpty("trigger")).Add(utils.IsDirectiveName("trigger")), c.Trigger},
		{identifier("context_marker"), c.ContextMarker},
		{identifier("parameterization"), c.Parameterization},
		{identifier("snapshot"), c.Snapshot},
	}
	for _, check := range checks {
		if err := check.chain.Validate(check.value); err != nil {
			return errors.WrapConfigurationError("snapcase", "validate", err)
		}
	}

	for name, importPath := range c.Frameworks {
		if err := utils.IsValidGoIdentifier("frameworks")(name); err != nil {
			return errors.WrapConfigurationError("snapcase", "validate", err)
		}
		if err := utils.IsImportPath("frameworks." + name)(importPath); err != nil {
			return errors.WrapConfigurationError("snapcase", "validate", err)
		}
	}

	if c.ModuleName != "" {
		if err := utils.IsImportPath("module")(c.ModuleName); err != nil {
			return errors.WrapConfigurationError("snapcase", "validate", err).
				WithSuggestion("Pass a module path such as github.com/acme/app to -module")
		}
	}

	if c.Jobs < 1 {
		return errors.ConfigurationError("jobs must be at least 1, got %d", c.Jobs)
	}

	if c.Write && c.Diff {
		return errors.ConfigurationError("-w and -d cannot be combined")
	}

	if len(c.Paths) == 0 {
		return errors.ConfigurationError("at least one path is required").
			WithSuggestion("Pass ./... to rewrite every package below the current directory")
	}

	return nil
}

// ExpanderOptions returns the transform options described by the configuration
func (c Config) ExpanderOptions() transform.Options {
	return transform.Options{
		Parameterization: c.Parameterization,
		Snapshot:         c.Snapshot,
		ContextMarker:    c.ContextMarker,
		Strict:           c.Strict,
	}
}

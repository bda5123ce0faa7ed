package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/config"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/generator"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/logger"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/validator"
	"github.com/spf13/afero"
)

// Env carries the process dependencies into command Run methods
type Env struct {
	Fs     afero.Fs
	Log    *logger.Logger
	Stdout io.Writer
}

// Globals are flags shared by every command. Flags that are set override
// the configuration file.
type Globals struct {
	Config    string `help:"Configuration file (default: eventor.{json,yaml,yml,toml} in the working directory)"`
	Target    string `help:"Artifact language: java or go"`
	Templates string `help:"Directory with dto.java.tmpl, producer.java.tmpl and consumer.java.tmpl"`
	FailFast  bool   `name:"fail-fast" help:"Stop at the first definition that fails"`
	Verbose   bool   `short:"v" help:"Verbose output"`
	Debug     bool   `help:"Debug output"`
	Quiet     bool   `short:"q" help:"Only report errors"`
	NoColor   bool   `name:"no-color" help:"Disable colored output"`
}

func (g *Globals) logger(stdout, stderr io.Writer) *logger.Logger {
	log := logger.New(stdout, stderr)
	switch {
	case g.Debug:
		log.SetLevel(logger.LogLevelDebug)
	case g.Verbose:
		log.SetLevel(logger.LogLevelVerbose)
	case g.Quiet:
		log.SetLevel(logger.LogLevelQuiet)
	}
	if g.NoColor {
		log.SetColors(false)
	}
	return log
}

// loadConfig reads the configuration file, if any, and applies flag overrides
func (g *Globals) loadConfig(log *logger.Logger) (*config.Config, error) {
	path := g.Config
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Find(wd)
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		log.Verbose("Using config %s", path)
	}

	if g.Target != "" {
		cfg.Target = g.Target
	}
	if g.Templates != "" {
		cfg.TemplateDir = g.Templates
	}
	if g.FailFast {
		cfg.FailFast = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Globals) generator(env *Env) (*generator.Generator, *config.Config, error) {
	cfg, err := g.loadConfig(env.Log)
	if err != nil {
		return nil, nil, err
	}
	gen, err := generator.FromConfig(cfg, env.Fs, env.Log)
	if err != nil {
		return nil, nil, err
	}
	return gen, cfg, nil
}

// GenerateCmd processes an explicit definition directory
type GenerateCmd struct {
	JSONDir   string `short:"j" name:"json-dir" required:"" help:"Directory containing JSON definitions"`
	OutputDir string `short:"o" name:"output-dir" required:"" help:"Directory for generated artifacts"`
}

func (c *GenerateCmd) Run(g *Globals, env *Env) error {
	gen, _, err := g.generator(env)
	if err != nil {
		return err
	}
	return generate(gen, env.Log, c.JSONDir, c.OutputDir)
}

// GenSourcesCmd runs generation with the conventional build layout. A
// missing definition directory is not an error here.
type GenSourcesCmd struct {
	BaseDir   string `name:"base-dir" default:"." help:"Project root the other directories are relative to"`
	JSONDir   string `name:"json-dir" default:"src/main/resources/eventor" help:"Definition directory"`
	OutputDir string `name:"output-dir" default:"target/generated-sources/eventor" help:"Output directory"`
}

func (c *GenSourcesCmd) Run(g *Globals, env *Env) error {
	input := c.resolve(c.JSONDir)
	output := c.resolve(c.OutputDir)

	if exists, _ := afero.DirExists(env.Fs, input); !exists {
		env.Log.Warning("Definition directory %s does not exist, skipping generation", input)
		return nil
	}

	gen, _, err := g.generator(env)
	if err != nil {
		return err
	}
	return generate(gen, env.Log, input, output)
}

func (c *GenSourcesCmd) resolve(dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(c.BaseDir, dir)
}

func generate(gen *generator.Generator, log *logger.Logger, input, output string) error {
	summary, err := gen.Generate(input, output)
	if err != nil {
		// a fail-fast abort was already reported per file
		if summary != nil && summary.Failed > 0 {
			return errFailed
		}
		return err
	}

	if summary.Failed > 0 {
		log.Error("%d of %d definition(s) failed", summary.Failed, summary.Total())
		return errFailed
	}
	if summary.Total() > 0 {
		log.Success("Generated %d artifact(s) in %s (%d skipped)", summary.Processed, output, summary.Skipped)
	}
	return nil
}

// CheckCmd lints a definition directory
type CheckCmd struct {
	JSONDir string `short:"j" name:"json-dir" required:"" help:"Directory containing JSON definitions"`
}

func (c *CheckCmd) Run(g *Globals, env *Env) error {
	gen, _, err := g.generator(env)
	if err != nil {
		return err
	}

	defs, summary, err := gen.Definitions(c.JSONDir)
	if err != nil {
		return err
	}

	result := validator.NewValidator(defs, env.Log).Validate()
	if !result.IsValid() || summary.Failed > 0 {
		return errFailed
	}
	return nil
}

// ConfigCmd groups config subcommands
type ConfigCmd struct {
	Init ConfigInit `cmd:"" help:"Write a configuration file with the default values"`
}

// ConfigInit scaffolds a configuration file
type ConfigInit struct {
	Format string `help:"Output format" enum:"json,yaml,toml" default:"json"`
	Output string `help:"Destination file path (default: eventor.<format>)"`
	Force  bool   `help:"Overwrite if the file already exists"`
}

func (c *ConfigInit) Run(env *Env) error {
	dest := c.Output
	if dest == "" {
		dest = config.BaseName + "." + c.Format
	}

	if !c.Force {
		if exists, _ := afero.Exists(env.Fs, dest); exists {
			return fmt.Errorf("%s exists; use --force to overwrite", dest)
		}
	}

	data, err := config.Default().Marshal(c.Format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := env.Fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := afero.WriteFile(env.Fs, dest, data, 0o644); err != nil {
		return err
	}

	env.Log.Success("Wrote %s", dest)
	return nil
}

// VersionCmd prints the build version
type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	fmt.Fprintf(env.Stdout, "eventor-gen %s\n", version)
	return nil
}

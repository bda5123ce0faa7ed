// Package generator walks a definition directory and writes one rendered
// artifact per definition file.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/config"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/logger"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/parser"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/templates"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/spf13/afero"
)

// ErrInputNotFound is returned when the input directory does not exist
var ErrInputNotFound = errors.New("input directory not found")

// DefaultSuffix selects definition files
const DefaultSuffix = ".json"

// NamingConventions are the advisory definition file names
var NamingConventions = []string{"*-event.json", "*-producer.json", "*-consumer.json"}

// Options configures a Generator
type Options struct {
	// Fs defaults to the OS filesystem
	Fs       afero.Fs
	Renderer *templates.Renderer
	Logger   *logger.Logger
	Suffix   string
	// FailFast stops the batch at the first failing file
	FailFast bool
}

// Generator turns definition files into artifacts
type Generator struct {
	fs       afero.Fs
	loader   *parser.Loader
	renderer *templates.Renderer
	log      *logger.Logger
	suffix   string
	failFast bool
}

// New creates a generator. The renderer is required.
func New(opts Options) (*Generator, error) {
	if opts.Renderer == nil {
		return nil, errors.New("generator: renderer is required")
	}

	g := &Generator{
		fs:       opts.Fs,
		renderer: opts.Renderer,
		log:      opts.Logger,
		suffix:   opts.Suffix,
		failFast: opts.FailFast,
	}
	if g.fs == nil {
		g.fs = afero.NewOsFs()
	}
	if g.log == nil {
		g.log = logger.Default()
	}
	if g.suffix == "" {
		g.suffix = DefaultSuffix
	}

	loader, err := parser.NewLoader(g.log)
	if err != nil {
		return nil, err
	}
	g.loader = loader
	return g, nil
}

// FromConfig builds the renderer described by cfg and a generator around it
func FromConfig(cfg *config.Config, fs afero.Fs, log *logger.Logger) (*Generator, error) {
	renderer, err := templates.New(RendererOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	return New(Options{
		Fs:       fs,
		Renderer: renderer,
		Logger:   log,
		Suffix:   cfg.Suffix,
		FailFast: cfg.FailFast,
	})
}

// RendererOptions maps configuration onto renderer options
func RendererOptions(cfg *config.Config) templates.Options {
	return templates.Options{
		Target:      templates.Target(cfg.Target),
		TemplateDir: cfg.TemplateDir,
		Packages: templates.Packages{
			Dto:      cfg.Packages.Dto,
			Producer: cfg.Packages.Producer,
			Consumer: cfg.Packages.Consumer,
		},
		GoPackage:      cfg.GoPackage,
		EventingImport: cfg.EventingImport,
	}
}

// Scan lists definition files under dir, sorted by path
func (g *Generator) Scan(dir string) ([]string, error) {
	var files []string
	err := afero.Walk(g.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(info.Name(), g.suffix) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}

// Generate processes every definition file under inputDir and writes the
// artifacts flat into outputDir. A per-file failure is recorded in the
// Summary and processing continues unless FailFast is set; the returned
// error is reserved for fatal conditions and fail-fast aborts.
func (g *Generator) Generate(inputDir, outputDir string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	info, err := g.fs.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return summary, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
	}

	files, err := g.Scan(inputDir)
	if err != nil {
		return summary, err
	}

	if len(files) == 0 {
		g.log.Info("No definition files (*%s) found in %s", g.suffix, inputDir)
		g.log.Hint("Expected files like %s", strings.Join(NamingConventions, ", "))
		return summary, nil
	}

	if err := g.fs.MkdirAll(outputDir, 0o755); err != nil {
		return summary, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	g.log.Section(fmt.Sprintf("Generating %s artifacts", g.renderer.Target()))
	g.log.Verbose("Found %d definition file(s) in %s", len(files), inputDir)

	for i, file := range files {
		g.log.Step(i+1, len(files), filepath.Base(file))

		outcome := g.processFile(file, outputDir)
		summary.add(outcome)

		if outcome.Status == StatusFailed {
			g.reportFailure(outcome)
			if g.failFast {
				return summary, outcome.Err
			}
		}
	}

	g.log.Progress(start, "Processed %d file(s)", len(files))
	g.log.Stats("Generation Statistics", map[string]any{
		"Written": summary.Processed,
		"Skipped": summary.Skipped,
		"Failed":  summary.Failed,
	})

	return summary, nil
}

// Definitions loads every definition under inputDir without rendering.
// Misses and load failures are reported in the Summary.
func (g *Generator) Definitions(inputDir string) ([]types.Definition, *Summary, error) {
	summary := &Summary{}

	info, err := g.fs.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, summary, fmt.Errorf("%w: %s", ErrInputNotFound, inputDir)
	}

	files, err := g.Scan(inputDir)
	if err != nil {
		return nil, summary, err
	}

	var defs []types.Definition
	for _, file := range files {
		def, outcome := g.load(file)
		if def == nil {
			summary.add(outcome)
			if outcome.Status == StatusFailed {
				g.reportFailure(outcome)
			}
			continue
		}
		defs = append(defs, def)
	}
	return defs, summary, nil
}

// load reads and classifies one file. A nil definition comes with a skipped
// or failed outcome.
func (g *Generator) load(file string) (types.Definition, Outcome) {
	outcome := Outcome{Source: file}

	raw, err := afero.ReadFile(g.fs, file)
	if err != nil {
		outcome.Status, outcome.Err = StatusFailed, fmt.Errorf("reading %s: %w", file, err)
		return nil, outcome
	}

	def, err := g.loader.Load(file, raw)
	if err != nil {
		var miss *parser.ClassificationMiss
		if errors.As(err, &miss) {
			g.log.Warning("Skipping %s", miss.Error())
			outcome.Status, outcome.Err = StatusSkipped, err
			return nil, outcome
		}
		outcome.Status, outcome.Err = StatusFailed, err
		return nil, outcome
	}

	outcome.Kind = def.Kind()
	return def, outcome
}

func (g *Generator) processFile(file, outputDir string) Outcome {
	def, outcome := g.load(file)
	if def == nil {
		return outcome
	}

	if err := checkArtifactName(def); err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
		return outcome
	}

	text, err := g.renderer.RenderDefinition(def)
	if err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
		return outcome
	}

	output := filepath.Join(outputDir, def.ArtifactName()+"."+g.renderer.Extension())
	if err := g.write(output, text); err != nil {
		outcome.Status, outcome.Err = StatusFailed, err
		return outcome
	}

	g.log.Success("Generated %s %s", def.Kind(), output)
	outcome.Status, outcome.Output = StatusWritten, output
	return outcome
}

func (g *Generator) write(path, text string) error {
	f, err := g.fs.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

// checkArtifactName keeps output flat inside the output directory
func checkArtifactName(def types.Definition) error {
	name := def.ArtifactName()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s: %s definition has an empty name", def.SourceFile(), def.Kind())
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%s: name %q must not contain path separators", def.SourceFile(), name)
	}
	return nil
}

func (g *Generator) reportFailure(o Outcome) {
	g.log.Error("Failed to process %s: %v", o.Source, o.Err)
	g.log.Hint("Check that the file is valid JSON")
	g.log.Hint("Check that every field has the expected type (names and types are strings, lists are arrays)")
	g.log.Hint("Check that 'type' is one of: dto, producer, consumer")
}

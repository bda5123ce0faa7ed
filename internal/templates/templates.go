// Package templates renders definitions into artifact source text.
//
// A Renderer holds exactly three templates, named after the definition
// kinds: dto, producer and consumer. Each template receives a context with a
// single variable of the same name holding the parsed definition. The set is
// loaded once by New; a missing or malformed template fails New and is never
// retried.
package templates

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
)

// Target selects the artifact language
type Target string

const (
	TargetJava Target = "java"
	TargetGo   Target = "go"
)

// DefaultEventingImport is the package the Go artifacts send and receive through
const DefaultEventingImport = "git.weirdcat.su/weirdcat/eventor-gen/pkg/eventing"

var (
	// ErrTemplateMissing is returned by New when the template set lacks one of
	// the three templates
	ErrTemplateMissing = errors.New("template missing")
	// ErrUnknownTemplate is returned by Render for names outside the set
	ErrUnknownTemplate = errors.New("unknown template")
)

// Template is anything that renders a context to a writer. *text/template.Template
// satisfies it.
type Template interface {
	Execute(w io.Writer, data any) error
}

// Packages holds the Java package of each artifact kind
type Packages struct {
	Dto      string
	Producer string
	Consumer string
}

// Options configures a Renderer
type Options struct {
	Target Target
	// TemplateDir replaces the embedded Java templates with
	// dto.java.tmpl, producer.java.tmpl and consumer.java.tmpl from a directory
	TemplateDir string
	// Templates takes precedence over TemplateDir
	Templates fs.FS
	Packages  Packages
	// GoPackage is the package clause of every Go artifact
	GoPackage      string
	EventingImport string
}

// RenderError reports a template evaluation failure
type RenderError struct {
	Template string
	Source   string
	Err      error
}

func (e *RenderError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("rendering %s template for %s: %v", e.Template, e.Source, e.Err)
	}
	return fmt.Sprintf("rendering %s template: %v", e.Template, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer renders definitions with a fixed, preloaded template set
type Renderer struct {
	target    Target
	extension string
	templates map[string]Template
}

// New loads the template set for the configured target
func New(opts Options) (*Renderer, error) {
	var (
		set map[string]Template
		err error
	)

	switch opts.Target {
	case TargetJava, "":
		fsys := opts.Templates
		if fsys == nil && opts.TemplateDir != "" {
			if _, statErr := os.Stat(opts.TemplateDir); statErr != nil {
				return nil, fmt.Errorf("template directory: %w", statErr)
			}
			fsys = os.DirFS(opts.TemplateDir)
		}
		if fsys == nil {
			fsys, err = fs.Sub(javaFS, "java")
			if err != nil {
				return nil, fmt.Errorf("opening embedded templates: %w", err)
			}
		}
		set, err = loadJavaTemplates(fsys, opts.Packages)
		opts.Target = TargetJava

	case TargetGo:
		if opts.Templates != nil || opts.TemplateDir != "" {
			return nil, errors.New("custom templates are only supported for the java target")
		}
		set = goTemplates(opts.GoPackage, opts.EventingImport)

	default:
		return nil, fmt.Errorf("unsupported target %q (supported: %s, %s)", opts.Target, TargetJava, TargetGo)
	}

	if err != nil {
		return nil, err
	}

	return &Renderer{
		target:    opts.Target,
		extension: string(opts.Target),
		templates: set,
	}, nil
}

// Target returns the artifact language
func (r *Renderer) Target() Target {
	return r.target
}

// Extension returns the artifact file extension, without the dot
func (r *Renderer) Extension() string {
	return r.extension
}

// Render executes the named template with the given context
func (r *Renderer) Render(name string, data map[string]any) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", &RenderError{Template: name, Err: ErrUnknownTemplate}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", &RenderError{Template: name, Err: err}
	}
	return buf.String(), nil
}

// RenderDefinition renders a definition with the template of its kind
func (r *Renderer) RenderDefinition(def types.Definition) (string, error) {
	text, err := r.Render(def.Kind().String(), Context(def))
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			renderErr.Source = def.SourceFile()
		}
		return "", err
	}
	return text, nil
}

// Context binds a definition to the variable named after its kind
func Context(def types.Definition) map[string]any {
	return map[string]any{def.Kind().String(): def}
}

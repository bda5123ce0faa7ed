package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"text/template"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
)

//go:embed java/*.tmpl
var javaFS embed.FS

// javaImportPaths maps well-known simple type names to their import
var javaImportPaths = map[string]string{
	"UUID":           "java.util.UUID",
	"Date":           "java.util.Date",
	"List":           "java.util.List",
	"ArrayList":      "java.util.ArrayList",
	"Map":            "java.util.Map",
	"HashMap":        "java.util.HashMap",
	"Set":            "java.util.Set",
	"HashSet":        "java.util.HashSet",
	"Optional":       "java.util.Optional",
	"LocalDate":      "java.time.LocalDate",
	"LocalDateTime":  "java.time.LocalDateTime",
	"LocalTime":      "java.time.LocalTime",
	"Instant":        "java.time.Instant",
	"ZonedDateTime":  "java.time.ZonedDateTime",
	"OffsetDateTime": "java.time.OffsetDateTime",
	"Duration":       "java.time.Duration",
	"BigDecimal":     "java.math.BigDecimal",
	"BigInteger":     "java.math.BigInteger",
}

const (
	importAutowired     = "org.springframework.beans.factory.annotation.Autowired"
	importQualifier     = "org.springframework.beans.factory.annotation.Qualifier"
	importKafkaListener = "org.springframework.kafka.annotation.KafkaListener"
	importKafkaTemplate = "org.springframework.kafka.core.KafkaTemplate"
	importComponent     = "org.springframework.stereotype.Component"
	importObjects       = "java.util.Objects"
)

func loadJavaTemplates(fsys fs.FS, pkgs Packages) (map[string]Template, error) {
	funcs := javaFuncs(pkgs)
	set := make(map[string]Template, len(types.Kinds))

	for _, kind := range types.Kinds {
		file := kind.String() + ".java.tmpl"

		data, err := fs.ReadFile(fsys, file)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateMissing, file)
		}
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", file, err)
		}

		tmpl, err := template.New(kind.String()).
			Funcs(funcs).
			Option("missingkey=error").
			Parse(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", file, err)
		}
		set[kind.String()] = tmpl
	}

	return set, nil
}

func javaFuncs(pkgs Packages) template.FuncMap {
	return template.FuncMap{
		"dtoPackage":      func() string { return pkgs.Dto },
		"producerPackage": func() string { return pkgs.Producer },
		"consumerPackage": func() string { return pkgs.Consumer },
		"capitalize":      Capitalize,
		"lowerFirst":      LowerFirst,
		"simpleName":      SimpleName,
		"quote":           JavaString,
		"dtoImports":      dtoImports,
		"producerImports": func(p *types.ProducerDefinition) []string {
			return producerImports(p, pkgs)
		},
		"consumerImports": func(c *types.ConsumerDefinition) []string {
			return consumerImports(c, pkgs)
		},
	}
}

// dtoImports collects imports for the well-known types used by the fields
func dtoImports(dto *types.DtoDefinition) []string {
	imports := newImportSet(importObjects)
	for _, field := range dto.Fields {
		for _, token := range typeTokens(field.Type) {
			if path, ok := javaImportPaths[token]; ok {
				imports.add(path)
			}
		}
	}
	return imports.sorted()
}

func producerImports(p *types.ProducerDefinition, pkgs Packages) []string {
	imports := newImportSet(importAutowired, importQualifier, importKafkaTemplate, importComponent)
	imports.add(referenceImport(p.Dto, pkgs.Dto, pkgs.Producer))
	return imports.sorted()
}

func consumerImports(c *types.ConsumerDefinition, pkgs Packages) []string {
	imports := newImportSet(importAutowired, importKafkaListener, importComponent)
	for _, dto := range c.DtoNames() {
		imports.add(referenceImport(dto, pkgs.Dto, pkgs.Consumer))
	}
	for _, dep := range c.Dependencies() {
		if isQualified(dep.Type) {
			imports.add(dep.Type)
		}
	}
	return imports.sorted()
}

// referenceImport resolves the import for a type referenced from another
// artifact package. Qualified names are imported as written.
func referenceImport(typeName, fromPackage, toPackage string) string {
	switch {
	case typeName == "":
		return ""
	case isQualified(typeName):
		return typeName
	case fromPackage == "" || fromPackage == toPackage:
		return ""
	default:
		return fromPackage + "." + typeName
	}
}

type importSet map[string]bool

func newImportSet(paths ...string) importSet {
	s := importSet{}
	for _, p := range paths {
		s.add(p)
	}
	return s
}

func (s importSet) add(path string) {
	if path != "" {
		s[path] = true
	}
}

func (s importSet) sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

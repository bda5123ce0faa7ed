package validator

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/logger"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
)

type Severity string

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// ValidationError represents a lint finding
type ValidationError struct {
	Source     string
	Definition string
	Field      string
	Message    string
	Severity   Severity
	Suggestion string
}

func (e ValidationError) Error() string {
	severityPrefix := "[ERROR]"
	if e.Severity == SeverityWarning {
		severityPrefix = "[WARN] "
	}

	subject := e.Definition
	if subject == "" {
		subject = "<unnamed>"
	}
	if e.Field != "" {
		subject += "." + e.Field
	}

	msg := fmt.Sprintf("%s %s (%s): %s", severityPrefix, subject, e.Source, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf("\n         Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationResult holds the results of validation
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
	Stats    map[string]int
}

// IsValid returns true if there are no errors
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) add(e ValidationError) {
	if e.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, e)
		return
	}
	r.Errors = append(r.Errors, e)
}

// Validator checks a set of definitions for problems the generator itself
// does not reject: identifiers that will not compile, references to DTOs
// that are not defined and artifacts that overwrite each other.
type Validator struct {
	log  *logger.Logger
	defs []types.Definition
	dtos map[string]*types.DtoDefinition
}

// NewValidator creates a new validator
func NewValidator(defs []types.Definition, log *logger.Logger) *Validator {
	if log == nil {
		log = logger.Default()
	}

	dtos := make(map[string]*types.DtoDefinition)
	for _, def := range defs {
		if dto, ok := def.(*types.DtoDefinition); ok {
			dtos[dto.Name] = dto
		}
	}

	return &Validator{log: log, defs: defs, dtos: dtos}
}

// Validate performs validation
func (v *Validator) Validate() *ValidationResult {
	v.log.Section("Validation")

	result := &ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationError{},
		Stats:    make(map[string]int),
	}

	v.validateUniqueNames(result)

	for _, def := range v.defs {
		v.log.Verbose("Validating %s: %s (%s)", def.Kind(), def.ArtifactName(), def.SourceFile())
		result.Stats[def.Kind().String()]++

		v.validateName(def, result)

		switch d := def.(type) {
		case *types.DtoDefinition:
			v.validateDto(d, result)
		case *types.ProducerDefinition:
			v.validateProducer(d, result)
		case *types.ConsumerDefinition:
			v.validateConsumer(d, result)
		}
	}

	result.Stats["errors"] = len(result.Errors)
	result.Stats["warnings"] = len(result.Warnings)

	if len(result.Warnings) > 0 {
		v.log.Warning("Found %d warnings", len(result.Warnings))
		for _, w := range result.Warnings {
			v.log.Warning("%s", w.Error())
		}
	}

	if len(result.Errors) > 0 {
		v.log.Error("Found %d errors that will break the generated code", len(result.Errors))
		for _, e := range result.Errors {
			v.log.Error("%s", e.Error())
		}
	} else {
		v.log.Success("Validation passed")
	}

	v.log.Stats("Validation Statistics", map[string]any{
		"DTOs":      result.Stats[types.KindDto.String()],
		"Producers": result.Stats[types.KindProducer.String()],
		"Consumers": result.Stats[types.KindConsumer.String()],
		"Errors":    result.Stats["errors"],
		"Warnings":  result.Stats["warnings"],
	})

	return result
}

// validateUniqueNames reports definitions that write to the same artifact
func (v *Validator) validateUniqueNames(result *ValidationResult) {
	sources := make(map[string][]string)
	for _, def := range v.defs {
		if def.ArtifactName() == "" {
			continue
		}
		sources[def.ArtifactName()] = append(sources[def.ArtifactName()], def.SourceFile())
	}

	names := make([]string, 0, len(sources))
	for name, files := range sources {
		if len(files) > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		files := sources[name]
		result.add(ValidationError{
			Definition: name,
			Source:     strings.Join(files, ", "),
			Message:    fmt.Sprintf("%d definitions share this name, only the last one processed survives", len(files)),
			Severity:   SeverityWarning,
			Suggestion: "Rename one of the definitions",
		})
	}
}

func (v *Validator) validateName(def types.Definition, result *ValidationResult) {
	name := def.ArtifactName()
	switch {
	case name == "":
		result.add(ValidationError{
			Source:     def.SourceFile(),
			Message:    fmt.Sprintf("%s definition has no name", def.Kind()),
			Severity:   SeverityError,
			Suggestion: "Set 'name' to the class name of the artifact",
		})
	case !IsIdentifier(name):
		result.add(ValidationError{
			Definition: name,
			Source:     def.SourceFile(),
			Message:    "Name is not a valid identifier",
			Severity:   SeverityError,
			Suggestion: "Use letters, digits and underscores only, starting with a letter",
		})
	}
}

func (v *Validator) validateDto(dto *types.DtoDefinition, result *ValidationResult) {
	v.log.Debug("  %d field(s)", len(dto.Fields))

	for _, field := range dto.Fields {
		if !IsIdentifier(field.Name) {
			result.add(ValidationError{
				Definition: dto.Name,
				Source:     dto.Source,
				Field:      field.Name,
				Message:    "Field name is not a valid identifier",
				Severity:   SeverityError,
				Suggestion: "Rename the field, e.g. user_id -> userId",
			})
		}
		if strings.TrimSpace(field.Type) == "" {
			result.add(ValidationError{
				Definition: dto.Name,
				Source:     dto.Source,
				Field:      field.Name,
				Message:    "Field has an empty type",
				Severity:   SeverityError,
				Suggestion: "Set a type such as String, UUID or another DTO name",
			})
		}
	}
}

func (v *Validator) validateProducer(p *types.ProducerDefinition, result *ValidationResult) {
	v.validateDtoReference(p.Name, p.Source, "dto", p.Dto, result)

	if p.Topic == "" {
		result.add(ValidationError{
			Definition: p.Name,
			Source:     p.Source,
			Field:      "topic",
			Message:    "Producer has no topic",
			Severity:   SeverityWarning,
			Suggestion: "Set 'topic' to the destination topic name",
		})
	}
	if p.FactoryBean == "" {
		result.add(ValidationError{
			Definition: p.Name,
			Source:     p.Source,
			Field:      "factoryBean",
			Message:    "Producer has no factory bean",
			Severity:   SeverityWarning,
			Suggestion: "Set 'factoryBean' to the name of the template bean to send through",
		})
	}
}

func (v *Validator) validateConsumer(c *types.ConsumerDefinition, result *ValidationResult) {
	if len(c.Methods) == 0 {
		result.add(ValidationError{
			Definition: c.Name,
			Source:     c.Source,
			Message:    "Consumer declares no methods",
			Severity:   SeverityWarning,
			Suggestion: "Add at least one entry to 'methods'",
		})
	}

	seen := make(map[string]bool)
	for i, m := range c.Methods {
		field := fmt.Sprintf("methods[%d]", i)

		switch {
		case m.MethodName == "":
			result.add(ValidationError{
				Definition: c.Name,
				Source:     c.Source,
				Field:      field,
				Message:    "Method has no methodName",
				Severity:   SeverityError,
				Suggestion: "Set 'methodName', e.g. handleUserRegisteredEvent",
			})
		case !IsIdentifier(m.MethodName):
			result.add(ValidationError{
				Definition: c.Name,
				Source:     c.Source,
				Field:      field,
				Message:    fmt.Sprintf("Method name %q is not a valid identifier", m.MethodName),
				Severity:   SeverityError,
			})
		case seen[m.MethodName]:
			result.add(ValidationError{
				Definition: c.Name,
				Source:     c.Source,
				Field:      field,
				Message:    fmt.Sprintf("Method %q is declared twice", m.MethodName),
				Severity:   SeverityError,
				Suggestion: "Give each listener method a distinct name",
			})
		}
		seen[m.MethodName] = true

		v.validateDtoReference(c.Name, c.Source, field+".dto", m.Dto, result)

		if m.Topic == "" {
			result.add(ValidationError{
				Definition: c.Name,
				Source:     c.Source,
				Field:      field + ".topic",
				Message:    "Listener has no topic",
				Severity:   SeverityWarning,
			})
		}

		for j, dep := range m.Dependencies {
			v.validateDependency(c, fmt.Sprintf("%s.dependencies[%d]", field, j), dep, result)
		}
	}

	v.log.Debug("  %d method(s), %d dependency bean(s)", len(c.Methods), len(c.Dependencies()))
}

func (v *Validator) validateDependency(c *types.ConsumerDefinition, field string, dep types.Dependency, result *ValidationResult) {
	if !IsIdentifier(dep.BeanName) {
		result.add(ValidationError{
			Definition: c.Name,
			Source:     c.Source,
			Field:      field,
			Message:    fmt.Sprintf("Bean name %q is not a valid identifier", dep.BeanName),
			Severity:   SeverityError,
			Suggestion: "Set 'beanName' to the injected field name, e.g. userService",
		})
	}
	if dep.Type == "" {
		result.add(ValidationError{
			Definition: c.Name,
			Source:     c.Source,
			Field:      field,
			Message:    "Dependency has no type",
			Severity:   SeverityError,
		})
	}
	for _, call := range dep.MethodCalls {
		if !IsIdentifier(call) {
			result.add(ValidationError{
				Definition: c.Name,
				Source:     c.Source,
				Field:      field,
				Message:    fmt.Sprintf("Method call %q is not a valid identifier", call),
				Severity:   SeverityError,
			})
		}
	}
}

// validateDtoReference warns about DTOs that are not defined in the set.
// Qualified names point outside the set and are not checked.
func (v *Validator) validateDtoReference(name, source, field, dto string, result *ValidationResult) {
	if dto == "" {
		result.add(ValidationError{
			Definition: name,
			Source:     source,
			Field:      field,
			Message:    "No DTO referenced",
			Severity:   SeverityError,
			Suggestion: "Set 'dto' to the name of a dto definition",
		})
		return
	}
	if strings.Contains(dto, ".") {
		return
	}
	if _, ok := v.dtos[dto]; !ok {
		result.add(ValidationError{
			Definition: name,
			Source:     source,
			Field:      field,
			Message:    fmt.Sprintf("DTO %q is not defined in this directory", dto),
			Severity:   SeverityWarning,
			Suggestion: fmt.Sprintf("Add a dto definition named %s or check the spelling", dto),
		})
	}
}

var javaKeywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// IsIdentifier reports whether s is usable as a class, field or method name
func IsIdentifier(s string) bool {
	if s == "" || javaKeywords[s] {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

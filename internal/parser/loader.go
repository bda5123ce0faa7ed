package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/logger"
	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Loader turns raw definition documents into typed definitions
type Loader struct {
	schemas map[types.Kind]*jsonschema.Schema
	log     *logger.Logger
}

// NewLoader compiles the embedded definition schemas. An error here means
// the binary itself is broken and should be treated as fatal. A nil log
// falls back to the default logger.
func NewLoader(log *logger.Logger) (*Loader, error) {
	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("loading definition schemas: %w", err)
	}
	if log == nil {
		log = logger.Default()
	}
	return &Loader{schemas: schemas, log: log}, nil
}

// Load classifies a document by its "type" field and decodes it into the
// matching definition. It returns a *ClassificationMiss for unknown or
// missing discriminators and a *ParseError for anything malformed,
// including keys the kind does not declare.
func (l *Loader) Load(source string, raw []byte) (types.Definition, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, &ParseError{Source: source, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseError{Source: source, Err: errors.New("definition must be a JSON object")}
	}

	kind, err := classify(source, obj)
	if err != nil {
		return nil, err
	}
	l.log.Debug("Classified %s as %s", source, kind)

	if err := l.schemas[kind].Validate(doc); err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	def, err := decode(kind, raw)
	if err != nil {
		return nil, &ParseError{Source: source, Err: err}
	}

	switch d := def.(type) {
	case *types.DtoDefinition:
		d.Source = source
	case *types.ProducerDefinition:
		d.Source = source
	case *types.ConsumerDefinition:
		d.Source = source
	}
	return def, nil
}

func classify(source string, obj map[string]any) (types.Kind, error) {
	value, present := obj["type"]
	if !present || value == nil {
		return "", &ClassificationMiss{Source: source}
	}

	s, isString := value.(string)
	if !isString {
		return "", &ClassificationMiss{Source: source, Type: fmt.Sprint(value), Present: true}
	}

	kind, known := types.ParseKind(s)
	if !known {
		return "", &ClassificationMiss{Source: source, Type: s, Present: true}
	}
	return kind, nil
}

func decode(kind types.Kind, raw []byte) (types.Definition, error) {
	switch kind {
	case types.KindDto:
		var dto types.DtoDefinition
		if err := json.Unmarshal(raw, &dto); err != nil {
			return nil, err
		}
		fields, err := ParseFields(raw)
		if err != nil {
			return nil, err
		}
		dto.Fields = fields
		return &dto, nil

	case types.KindProducer:
		var producer types.ProducerDefinition
		if err := json.Unmarshal(raw, &producer); err != nil {
			return nil, err
		}
		return &producer, nil

	case types.KindConsumer:
		var consumer types.ConsumerDefinition
		if err := json.Unmarshal(raw, &consumer); err != nil {
			return nil, err
		}
		normalizeConsumer(&consumer)
		return &consumer, nil
	}

	return nil, fmt.Errorf("unsupported kind %q", kind)
}

// normalizeConsumer replaces absent lists with empty ones
func normalizeConsumer(c *types.ConsumerDefinition) {
	if c.Methods == nil {
		c.Methods = []types.ConsumerMethod{}
	}
	for i := range c.Methods {
		if c.Methods[i].Dependencies == nil {
			c.Methods[i].Dependencies = []types.Dependency{}
		}
		for j := range c.Methods[i].Dependencies {
			if c.Methods[i].Dependencies[j].MethodCalls == nil {
				c.Methods[i].Dependencies[j].MethodCalls = []string{}
			}
		}
	}
}

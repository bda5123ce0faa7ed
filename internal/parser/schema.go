package parser

import (
	"bytes"
	"embed"
	"fmt"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// compileSchemas compiles the embedded shape schema of every kind
func compileSchemas() (map[types.Kind]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	schemas := make(map[types.Kind]*jsonschema.Schema, len(types.Kinds))

	for _, kind := range types.Kinds {
		name := kind.String() + ".schema.json"
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading schema %s: %w", name, err)
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding schema %s: %w", name, err)
		}
		if err := c.AddResource(name, doc); err != nil {
			return nil, fmt.Errorf("adding schema %s: %w", name, err)
		}

		schema, err := c.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compiling schema %s: %w", name, err)
		}
		schemas[kind] = schema
	}

	return schemas, nil
}

package parser

import "fmt"

// ClassificationMiss reports a definition whose type discriminator is
// missing or not one of dto, producer, consumer. It is not fatal.
type ClassificationMiss struct {
	Source string
	// Type is the raw discriminator value, empty when absent
	Type    string
	Present bool
}

func (e *ClassificationMiss) Error() string {
	if !e.Present {
		return fmt.Sprintf("%s: missing 'type' field", e.Source)
	}
	return fmt.Sprintf("%s: unknown type %q", e.Source, e.Type)
}

// ParseError reports a definition that could not be decoded
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

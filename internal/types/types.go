package types

import "strings"

// Kind identifies which artifact a definition describes
type Kind string

const (
	KindDto      Kind = "dto"
	KindProducer Kind = "producer"
	KindConsumer Kind = "consumer"
)

// Kinds lists every known definition kind in processing order
var Kinds = []Kind{KindDto, KindProducer, KindConsumer}

// ParseKind resolves a discriminator value case-insensitively
func ParseKind(s string) (Kind, bool) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindDto, KindProducer, KindConsumer:
		return k, true
	}
	return "", false
}

func (k Kind) String() string {
	return string(k)
}

// Definition is the common view over DTO, producer and consumer definitions
type Definition interface {
	Kind() Kind
	ArtifactName() string
	SourceFile() string
}

// Field is one DTO field, kept in document order
type Field struct {
	Name string
	Type string
}

// DtoDefinition represents a data-transfer object definition
type DtoDefinition struct {
	Type   string  `json:"type"`
	Name   string  `json:"name"`
	Fields []Field `json:"-"`
	Source string  `json:"-"`
}

func (d *DtoDefinition) Kind() Kind           { return KindDto }
func (d *DtoDefinition) ArtifactName() string { return d.Name }
func (d *DtoDefinition) SourceFile() string   { return d.Source }

// FieldType returns the declared type of a field and whether it exists
func (d *DtoDefinition) FieldType(name string) (string, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return "", false
}

// ProducerDefinition represents a message producer definition
type ProducerDefinition struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Dto         string `json:"dto"`
	Topic       string `json:"topic"`
	FactoryBean string `json:"factoryBean"`
	Source      string `json:"-"`
}

func (p *ProducerDefinition) Kind() Kind           { return KindProducer }
func (p *ProducerDefinition) ArtifactName() string { return p.Name }
func (p *ProducerDefinition) SourceFile() string   { return p.Source }

// ConsumerDefinition represents a message consumer definition
type ConsumerDefinition struct {
	Type    string           `json:"type"`
	Name    string           `json:"name"`
	Methods []ConsumerMethod `json:"methods"`
	Source  string           `json:"-"`
}

func (c *ConsumerDefinition) Kind() Kind           { return KindConsumer }
func (c *ConsumerDefinition) ArtifactName() string { return c.Name }
func (c *ConsumerDefinition) SourceFile() string   { return c.Source }

// Dependencies returns the distinct dependencies of all methods, first
// declaration of a bean name wins
func (c *ConsumerDefinition) Dependencies() []Dependency {
	seen := make(map[string]bool)
	var deps []Dependency
	for _, m := range c.Methods {
		for _, dep := range m.Dependencies {
			if seen[dep.BeanName] {
				continue
			}
			seen[dep.BeanName] = true
			deps = append(deps, dep)
		}
	}
	return deps
}

// DtoNames returns the distinct DTO names the consumer methods accept
func (c *ConsumerDefinition) DtoNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range c.Methods {
		if m.Dto == "" || seen[m.Dto] {
			continue
		}
		seen[m.Dto] = true
		names = append(names, m.Dto)
	}
	return names
}

// ConsumerMethod is one listener method of a consumer
type ConsumerMethod struct {
	MethodName      string       `json:"methodName"`
	Dto             string       `json:"dto"`
	Topic           string       `json:"topic"`
	GroupID         string       `json:"groupId"`
	ListenerFactory string       `json:"listenerFactory"`
	Dependencies    []Dependency `json:"dependencies"`
}

// Dependency is a collaborator injected into a consumer
type Dependency struct {
	BeanName    string   `json:"beanName"`
	Type        string   `json:"type"`
	MethodCalls []string `json:"methodCalls"`
}

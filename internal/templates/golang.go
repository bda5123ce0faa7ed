package templates

import (
	"fmt"
	"io"
	"strings"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/dave/jennifer/jen"
)

const generatedHeader = "Code generated by eventor-gen. DO NOT EDIT."

// DefaultGoPackage is the package clause of Go artifacts when none is configured
const DefaultGoPackage = "events"

// goBuiltinTypes maps definition type names, Java or Go spelled, to Go types
var goBuiltinTypes = map[string]func() *jen.Statement{
	"String":         jen.String,
	"string":         jen.String,
	"char":           jen.Rune,
	"Character":      jen.Rune,
	"int":            jen.Int32,
	"Integer":        jen.Int32,
	"int32":          jen.Int32,
	"long":           jen.Int64,
	"Long":           jen.Int64,
	"int64":          jen.Int64,
	"short":          jen.Int16,
	"Short":          jen.Int16,
	"byte":           jen.Int8,
	"Byte":           jen.Int8,
	"boolean":        jen.Bool,
	"Boolean":        jen.Bool,
	"bool":           jen.Bool,
	"double":         jen.Float64,
	"Double":         jen.Float64,
	"float64":        jen.Float64,
	"float":          jen.Float32,
	"Float":          jen.Float32,
	"float32":        jen.Float32,
	"Object":         jen.Any,
	"any":            jen.Any,
	"UUID":           func() *jen.Statement { return jen.Qual("github.com/google/uuid", "UUID") },
	"Date":           func() *jen.Statement { return jen.Qual("time", "Time") },
	"LocalDate":      func() *jen.Statement { return jen.Qual("time", "Time") },
	"LocalDateTime":  func() *jen.Statement { return jen.Qual("time", "Time") },
	"LocalTime":      func() *jen.Statement { return jen.Qual("time", "Time") },
	"Instant":        func() *jen.Statement { return jen.Qual("time", "Time") },
	"ZonedDateTime":  func() *jen.Statement { return jen.Qual("time", "Time") },
	"OffsetDateTime": func() *jen.Statement { return jen.Qual("time", "Time") },
	"time.Time":      func() *jen.Statement { return jen.Qual("time", "Time") },
	"Duration":       func() *jen.Statement { return jen.Qual("time", "Duration") },
	"time.Duration":  func() *jen.Statement { return jen.Qual("time", "Duration") },
	"BigDecimal":     func() *jen.Statement { return jen.Op("*").Qual("math/big", "Float") },
	"BigInteger":     func() *jen.Statement { return jen.Op("*").Qual("math/big", "Int") },
}

// GoType converts a definition type name to a jennifer type expression.
// Unknown names are used verbatim, so other DTOs resolve within the package.
func GoType(typeName string) *jen.Statement {
	typeName = strings.TrimSpace(typeName)

	if fn, ok := goBuiltinTypes[typeName]; ok {
		return fn()
	}

	switch {
	case strings.HasPrefix(typeName, "[]"):
		return jen.Index().Add(GoType(typeName[2:]))
	case strings.HasPrefix(typeName, "*"):
		return jen.Op("*").Add(GoType(typeName[1:]))
	case strings.HasSuffix(typeName, "[]"):
		return jen.Index().Add(GoType(strings.TrimSuffix(typeName, "[]")))
	}

	if base, args, ok := genericType(typeName); ok {
		params := splitTypeArgs(args)
		switch base {
		case "List", "ArrayList", "Collection", "Set", "HashSet":
			if len(params) == 1 {
				return jen.Index().Add(GoType(params[0]))
			}
		case "Map", "HashMap":
			if len(params) == 2 {
				return jen.Map(GoType(params[0])).Add(GoType(params[1]))
			}
		case "Optional":
			if len(params) == 1 {
				return jen.Op("*").Add(GoType(params[0]))
			}
		}
	}

	return jen.Id(typeName)
}

// jenTemplate builds a Go artifact with jennifer
type jenTemplate struct {
	name  string
	pkg   string
	build func(f *jen.File, ctx map[string]any) error
}

func (t *jenTemplate) Execute(w io.Writer, data any) error {
	ctx, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("context must be a map, got %T", data)
	}

	f := jen.NewFile(t.pkg)
	f.HeaderComment(generatedHeader)

	if err := t.build(f, ctx); err != nil {
		return err
	}
	return f.Render(w)
}

func goTemplates(pkg, eventingImport string) map[string]Template {
	if pkg == "" {
		pkg = DefaultGoPackage
	}
	if eventingImport == "" {
		eventingImport = DefaultEventingImport
	}

	g := &goBuilder{eventing: eventingImport}
	return map[string]Template{
		types.KindDto.String():      &jenTemplate{name: "dto", pkg: pkg, build: g.dto},
		types.KindProducer.String(): &jenTemplate{name: "producer", pkg: pkg, build: g.producer},
		types.KindConsumer.String(): &jenTemplate{name: "consumer", pkg: pkg, build: g.consumer},
	}
}

func contextValue[T any](ctx map[string]any, key string) (T, error) {
	v, ok := ctx[key].(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("context variable %q is missing or has type %T, want %T", key, ctx[key], zero)
	}
	return v, nil
}

type goBuilder struct {
	eventing string
}

// dto generates a struct with json tags and a Get/Set pair per field
func (g *goBuilder) dto(f *jen.File, ctx map[string]any) error {
	dto, err := contextValue[*types.DtoDefinition](ctx, "dto")
	if err != nil {
		return err
	}

	fields := make([]jen.Code, 0, len(dto.Fields))
	for _, field := range dto.Fields {
		fields = append(fields,
			jen.Id(GoName(field.Name)).Add(GoType(field.Type)).Tag(map[string]string{"json": field.Name}),
		)
	}

	f.Commentf("%s is a message payload.", dto.Name)
	f.Type().Id(dto.Name).Struct(fields...)

	for _, field := range dto.Fields {
		name := GoName(field.Name)

		f.Line()
		f.Commentf("Get%s returns the %s field.", name, field.Name)
		f.Func().Params(
			jen.Id("e").Op("*").Id(dto.Name),
		).Id("Get" + name).Params().Add(GoType(field.Type)).Block(
			jen.Return(jen.Id("e").Dot(name)),
		)

		f.Line()
		f.Commentf("Set%s sets the %s field.", name, field.Name)
		f.Func().Params(
			jen.Id("e").Op("*").Id(dto.Name),
		).Id("Set" + name).Params(
			jen.Id("v").Add(GoType(field.Type)),
		).Block(
			jen.Id("e").Dot(name).Op("=").Id("v"),
		)
	}

	return nil
}

// producer generates a typed sender bound to one topic
func (g *goBuilder) producer(f *jen.File, ctx map[string]any) error {
	p, err := contextValue[*types.ProducerDefinition](ctx, "producer")
	if err != nil {
		return err
	}

	topicConst := p.Name + "Topic"
	factoryConst := p.Name + "FactoryBean"

	f.Const().Defs(
		jen.Id(topicConst).Op("=").Lit(p.Topic),
		jen.Id(factoryConst).Op("=").Lit(p.FactoryBean),
	)

	f.Line()
	f.Commentf("%s publishes %s messages to %s.", p.Name, p.Dto, p.Topic)
	f.Type().Id(p.Name).Struct(
		jen.Id("sender").Qual(g.eventing, "Sender"),
	)

	f.Line()
	f.Commentf("New%s creates a producer sending through sender, usually the one registered as %q.", p.Name, p.FactoryBean)
	f.Func().Id("New"+p.Name).Params(
		jen.Id("sender").Qual(g.eventing, "Sender"),
	).Op("*").Id(p.Name).Block(
		jen.Return(jen.Op("&").Id(p.Name).Values(jen.Dict{
			jen.Id("sender"): jen.Id("sender"),
		})),
	)

	f.Line()
	f.Comment("Send publishes event without a key.")
	f.Func().Params(
		jen.Id("p").Op("*").Id(p.Name),
	).Id("Send").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("event").Op("*").Id(p.Dto),
	).Error().Block(
		jen.Return(jen.Id("p").Dot("sender").Dot("Send").Call(
			jen.Id("ctx"), jen.Id(topicConst), jen.Lit(""), jen.Id("event"),
		)),
	)

	f.Line()
	f.Comment("SendWithKey publishes event with a partitioning key.")
	f.Func().Params(
		jen.Id("p").Op("*").Id(p.Name),
	).Id("SendWithKey").Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("key").String(),
		jen.Id("event").Op("*").Id(p.Dto),
	).Error().Block(
		jen.Return(jen.Id("p").Dot("sender").Dot("Send").Call(
			jen.Id("ctx"), jen.Id(topicConst), jen.Id("key"), jen.Id("event"),
		)),
	)

	return nil
}

// consumer generates a listener with injected dependencies, one handler per
// method and a Subscriptions table
func (g *goBuilder) consumer(f *jen.File, ctx map[string]any) error {
	c, err := contextValue[*types.ConsumerDefinition](ctx, "consumer")
	if err != nil {
		return err
	}

	deps := c.Dependencies()

	fields := make([]jen.Code, 0, len(deps))
	params := make([]jen.Code, 0, len(deps))
	assign := jen.Dict{}
	for _, dep := range deps {
		id := LowerFirst(GoName(dep.BeanName))
		fields = append(fields, jen.Id(id).Add(GoType(dep.Type)))
		params = append(params, jen.Id(id).Add(GoType(dep.Type)))
		assign[jen.Id(id)] = jen.Id(id)
	}

	f.Commentf("%s consumes messages for %d listener method(s).", c.Name, len(c.Methods))
	f.Type().Id(c.Name).Struct(fields...)

	f.Line()
	f.Commentf("New%s wires the listener dependencies.", c.Name)
	f.Func().Id("New"+c.Name).Params(params...).Op("*").Id(c.Name).Block(
		jen.Return(jen.Op("&").Id(c.Name).Values(assign)),
	)

	subscriptions := make([]jen.Code, 0, len(c.Methods))
	for _, m := range c.Methods {
		handler := GoName(m.MethodName)

		calls := []jen.Code{}
		for _, dep := range m.Dependencies {
			for _, call := range dep.MethodCalls {
				calls = append(calls,
					jen.Id("c").Dot(LowerFirst(GoName(dep.BeanName))).Dot(GoName(call)).Call(jen.Id("event")),
				)
			}
		}
		calls = append(calls, jen.Return(jen.Nil()))

		f.Line()
		f.Commentf("%s handles %s messages from %s.", handler, m.Dto, m.Topic)
		f.Func().Params(
			jen.Id("c").Op("*").Id(c.Name),
		).Id(handler).Params(
			jen.Id("ctx").Qual("context", "Context"),
			jen.Id("event").Op("*").Id(m.Dto),
		).Error().Block(calls...)

		subscriptions = append(subscriptions, jen.Values(jen.Dict{
			jen.Id("Topic"):           jen.Lit(m.Topic),
			jen.Id("GroupID"):         jen.Lit(m.GroupID),
			jen.Id("ListenerFactory"): jen.Lit(m.ListenerFactory),
			jen.Id("Method"):          jen.Lit(handler),
			jen.Id("Handler"):         jen.Qual(g.eventing, "JSONHandler").Call(jen.Id("c").Dot(handler)),
		}))
	}

	f.Line()
	f.Comment("Subscriptions lists the topic bindings of every handler.")
	f.Func().Params(
		jen.Id("c").Op("*").Id(c.Name),
	).Id("Subscriptions").Params().Index().Qual(g.eventing, "Subscription").Block(
		jen.Return(jen.Index().Qual(g.eventing, "Subscription").Values(subscriptions...)),
	)

	return nil
}

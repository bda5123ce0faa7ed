package templates

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userEvent() *types.DtoDefinition {
	return &types.DtoDefinition{
		Type: "dto",
		Name: "UserRegisteredEvent",
		Fields: []types.Field{
			{Name: "userId", Type: "UUID"},
			{Name: "username", Type: "String"},
		},
		Source: "user-registered-event.json",
	}
}

func userProducer() *types.ProducerDefinition {
	return &types.ProducerDefinition{
		Type:        "producer",
		Name:        "UserEventProducer",
		Dto:         "UserRegisteredEvent",
		Topic:       "user-events",
		FactoryBean: "kafkaTemplate",
	}
}

func userConsumer() *types.ConsumerDefinition {
	return &types.ConsumerDefinition{
		Type: "consumer",
		Name: "UserEventConsumer",
		Methods: []types.ConsumerMethod{{
			MethodName:      "handleUserRegisteredEvent",
			Dto:             "UserRegisteredEvent",
			Topic:           "user-events",
			GroupID:         "user-service",
			ListenerFactory: "kafkaListenerContainerFactory",
			Dependencies: []types.Dependency{{
				BeanName:    "userService",
				Type:        "UserService",
				MethodCalls: []string{"welcomeNewUser"},
			}},
		}},
	}
}

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	r, err := New(opts)
	require.NoError(t, err)
	return r
}

func TestJavaDto(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetJava})
	assert.Equal(t, "java", r.Extension())

	out, err := r.RenderDefinition(userEvent())
	require.NoError(t, err)

	assert.Contains(t, out, "import java.util.UUID;")
	assert.Contains(t, out, "public class UserRegisteredEvent {")
	assert.Contains(t, out, "private UUID userId;")
	assert.Contains(t, out, "private String username;")
	assert.Contains(t, out, "public UserRegisteredEvent(UUID userId, String username)")
	assert.Contains(t, out, "public UUID getUserId()")
	assert.Contains(t, out, "public void setUserId(UUID userId)")
	assert.Contains(t, out, "public String getUsername()")
	assert.Contains(t, out, "public void setUsername(String username)")
	assert.NotContains(t, out, "package ")
}

func TestJavaDtoWithoutFields(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetJava})

	out, err := r.RenderDefinition(&types.DtoDefinition{Name: "Ping", Fields: []types.Field{}})
	require.NoError(t, err)

	assert.Contains(t, out, "public Ping() {")
	assert.NotContains(t, out, "private ")
	assert.Contains(t, out, "return Objects.hash();")
}

func TestJavaProducer(t *testing.T) {
	r := newRenderer(t, Options{
		Target: TargetJava,
		Packages: Packages{
			Dto:      "com.example.dto",
			Producer: "com.example.producer",
		},
	})

	out, err := r.RenderDefinition(userProducer())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "package com.example.producer;"), out)
	assert.Contains(t, out, "import com.example.dto.UserRegisteredEvent;")
	assert.Contains(t, out, `public static final String TOPIC = "user-events";`)
	assert.Contains(t, out, `@Qualifier("kafkaTemplate")`)
	assert.Contains(t, out, "KafkaTemplate<String, UserRegisteredEvent> kafkaTemplate;")
}

func TestJavaProducerEscapesLiterals(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetJava})
	p := userProducer()
	p.Topic = `odd "topic"`

	out, err := r.RenderDefinition(p)
	require.NoError(t, err)
	assert.Contains(t, out, `TOPIC = "odd \"topic\"";`)
}

func TestJavaConsumer(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetJava})

	out, err := r.RenderDefinition(userConsumer())
	require.NoError(t, err)

	assert.Contains(t, out, "public class UserEventConsumer {")
	assert.Contains(t, out, "private UserService userService;")
	assert.Contains(t, out, `@KafkaListener(topics = "user-events", groupId = "user-service", containerFactory = "kafkaListenerContainerFactory")`)
	assert.Contains(t, out, "public void handleUserRegisteredEvent(UserRegisteredEvent event) {")
	assert.Contains(t, out, "userService.welcomeNewUser(event);")
}

func TestJavaConsumerSharedDependency(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetJava})

	c := userConsumer()
	c.Methods[0].Dependencies[0].Type = "com.acme.service.UserService"
	c.Methods = append(c.Methods, types.ConsumerMethod{
		MethodName: "handleUserDeleted",
		Dto:        "UserDeletedEvent",
		Topic:      "user-deleted",
		GroupID:    "user-service",
		Dependencies: []types.Dependency{
			{BeanName: "userService", Type: "com.acme.service.UserService", MethodCalls: []string{"forget", "audit"}},
		},
	})

	out, err := r.RenderDefinition(c)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "private UserService userService;"))
	assert.Contains(t, out, "import com.acme.service.UserService;")
	assert.Contains(t, out, `@KafkaListener(topics = "user-deleted", groupId = "user-service")`)
	assert.Less(t, strings.Index(out, "userService.forget(event);"), strings.Index(out, "userService.audit(event);"))
}

func TestCustomTemplateSet(t *testing.T) {
	fsys := fstest.MapFS{
		"dto.java.tmpl":      {Data: []byte(`// {{ .dto.Name }} in {{ dtoPackage }}`)},
		"producer.java.tmpl": {Data: []byte(`// {{ .producer.Topic }}`)},
		"consumer.java.tmpl": {Data: []byte(`// {{ len .consumer.Methods }}`)},
	}
	r := newRenderer(t, Options{Templates: fsys, Packages: Packages{Dto: "org.acme"}})

	out, err := r.RenderDefinition(userEvent())
	require.NoError(t, err)
	assert.Equal(t, "// UserRegisteredEvent in org.acme", out)

	out, err = r.RenderDefinition(userConsumer())
	require.NoError(t, err)
	assert.Equal(t, "// 1", out)
}

func TestTemplateDir(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range types.Kinds {
		body := fmt.Sprintf("%s:{{ .%s.Name }}", kind, kind)
		require.NoError(t, os.WriteFile(filepath.Join(dir, kind.String()+".java.tmpl"), []byte(body), 0o644))
	}

	r := newRenderer(t, Options{TemplateDir: dir})
	out, err := r.RenderDefinition(userProducer())
	require.NoError(t, err)
	assert.Equal(t, "producer:UserEventProducer", out)
}

func TestTemplateDirMissing(t *testing.T) {
	_, err := New(Options{TemplateDir: filepath.Join(t.TempDir(), "absent")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMissingTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"dto.java.tmpl":      {Data: []byte(`dto`)},
		"producer.java.tmpl": {Data: []byte(`producer`)},
	}

	_, err := New(Options{Templates: fsys})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTemplateMissing)
	assert.Contains(t, err.Error(), "consumer.java.tmpl")
}

func TestMalformedTemplate(t *testing.T) {
	fsys := fstest.MapFS{
		"dto.java.tmpl":      {Data: []byte(`{{ .dto.Name `)},
		"producer.java.tmpl": {Data: []byte(`producer`)},
		"consumer.java.tmpl": {Data: []byte(`consumer`)},
	}

	_, err := New(Options{Templates: fsys})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTemplateMissing))
	assert.Contains(t, err.Error(), "dto.java.tmpl")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := newRenderer(t, Options{})

	_, err := r.Render("query", map[string]any{})
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "query", renderErr.Template)
}

func TestRenderMissingVariable(t *testing.T) {
	r := newRenderer(t, Options{})

	_, err := r.Render("dto", map[string]any{"producer": userProducer()})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "dto", renderErr.Template)
}

func TestRenderErrorCarriesSource(t *testing.T) {
	fsys := fstest.MapFS{
		"dto.java.tmpl":      {Data: []byte(`{{ .dto.Missing }}`)},
		"producer.java.tmpl": {Data: []byte(`producer`)},
		"consumer.java.tmpl": {Data: []byte(`consumer`)},
	}
	r := newRenderer(t, Options{Templates: fsys})

	_, err := r.RenderDefinition(userEvent())
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "user-registered-event.json", renderErr.Source)
	assert.Contains(t, err.Error(), "user-registered-event.json")
}

func TestNewRejectsUnknownTarget(t *testing.T) {
	_, err := New(Options{Target: "kotlin"})
	assert.Error(t, err)
}

func TestGoTargetRejectsCustomTemplates(t *testing.T) {
	_, err := New(Options{Target: TargetGo, TemplateDir: t.TempDir()})
	assert.Error(t, err)
}

func TestGoDto(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetGo})
	assert.Equal(t, "go", r.Extension())

	out, err := r.RenderDefinition(userEvent())
	require.NoError(t, err)

	assert.Contains(t, out, "// Code generated by eventor-gen. DO NOT EDIT.")
	assert.Contains(t, out, "package events")
	assert.Contains(t, out, `"github.com/google/uuid"`)
	assert.Contains(t, out, "type UserRegisteredEvent struct {")
	assert.Contains(t, out, "`json:\"userId\"`")
	assert.Contains(t, out, "func (e *UserRegisteredEvent) GetUserId() uuid.UUID {")
	assert.Contains(t, out, "func (e *UserRegisteredEvent) SetUsername(v string) {")
}

func TestGoProducer(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetGo, GoPackage: "messages"})

	out, err := r.RenderDefinition(userProducer())
	require.NoError(t, err)

	assert.Contains(t, out, "package messages")
	assert.Contains(t, out, "UserEventProducerTopic")
	assert.Contains(t, out, `"user-events"`)
	assert.Contains(t, out, `"kafkaTemplate"`)
	assert.Contains(t, out, "func NewUserEventProducer(sender eventing.Sender) *UserEventProducer {")
	assert.Contains(t, out, "func (p *UserEventProducer) Send(ctx context.Context, event *UserRegisteredEvent) error {")
}

func TestGoConsumer(t *testing.T) {
	r := newRenderer(t, Options{Target: TargetGo})

	out, err := r.RenderDefinition(userConsumer())
	require.NoError(t, err)

	assert.Contains(t, out, "type UserEventConsumer struct {")
	assert.Contains(t, out, "func NewUserEventConsumer(userService UserService) *UserEventConsumer {")
	assert.Contains(t, out, "func (c *UserEventConsumer) HandleUserRegisteredEvent(ctx context.Context, event *UserRegisteredEvent) error {")
	assert.Contains(t, out, "c.userService.WelcomeNewUser(event)")
	assert.Contains(t, out, "func (c *UserEventConsumer) Subscriptions() []eventing.Subscription {")
	assert.Contains(t, out, "eventing.JSONHandler(c.HandleUserRegisteredEvent)")
}

func TestGoTypeMapping(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"String", "string"},
		{"Integer", "int32"},
		{"long", "int64"},
		{"boolean", "bool"},
		{"Instant", "time.Time"},
		{"BigDecimal", "*big.Float"},
		{"List<String>", "[]string"},
		{"Map<String, List<Long>>", "map[string][]int64"},
		{"Optional<Double>", "*float64"},
		{"String[]", "[]string"},
		{"[]int64", "[]int64"},
		{"Address", "Address"},
	}

	for _, tt := range tests {
		got := fmt.Sprintf("%#v", GoType(tt.in))
		if got != tt.want {
			t.Errorf("GoType(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestContextKeyedByKind(t *testing.T) {
	ctx := Context(userProducer())
	assert.Len(t, ctx, 1)
	assert.Contains(t, ctx, "producer")
}

func TestDtoRendersEveryFieldProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	java := newRenderer(t, Options{Target: TargetJava})
	golang := newRenderer(t, Options{Target: TargetGo})

	properties.Property("N fields give N declarations and N accessor pairs", prop.ForAll(
		func(n int) bool {
			dto := &types.DtoDefinition{Name: "Event", Fields: []types.Field{}}
			for i := 0; i < n; i++ {
				dto.Fields = append(dto.Fields, types.Field{Name: fmt.Sprintf("field%d", i), Type: "String"})
			}

			javaOut, err := java.RenderDefinition(dto)
			if err != nil {
				return false
			}
			goOut, err := golang.RenderDefinition(dto)
			if err != nil {
				return false
			}

			return strings.Count(javaOut, "    private String ") == n &&
				strings.Count(javaOut, "public String getField") == n &&
				strings.Count(javaOut, "public void setField") == n &&
				strings.Count(goOut, ") GetField") == n &&
				strings.Count(goOut, ") SetField") == n
		},
		gen.IntRange(0, 25),
	))

	properties.TestingRun(t)
}

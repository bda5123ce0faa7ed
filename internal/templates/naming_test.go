package templates

import (
	"reflect"
	"testing"

	"git.weirdcat.su/weirdcat/eventor-gen/internal/types"
)

func TestCapitalize(t *testing.T) {
	tests := map[string]string{
		"":       "",
		"userId": "UserId",
		"U":      "U",
		"élan":   "Élan",
	}
	for in, want := range tests {
		if got := Capitalize(in); got != want {
			t.Errorf("Capitalize(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestLowerFirst(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"UserService": "userService",
		"userService": "userService",
	}
	for in, want := range tests {
		if got := LowerFirst(in); got != want {
			t.Errorf("LowerFirst(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"userId":        "UserId",
		"user_id":       "UserId",
		"user-name":     "UserName",
		"welcome new":   "WelcomeNew",
		"2fa":           "X2fa",
		"kafkaTemplate": "KafkaTemplate",
	}
	for in, want := range tests {
		if got := GoName(in); got != want {
			t.Errorf("GoName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestSimpleName(t *testing.T) {
	tests := map[string]string{
		"UserService":                     "UserService",
		"com.example.service.UserService": "UserService",
	}
	for in, want := range tests {
		if got := SimpleName(in); got != want {
			t.Errorf("SimpleName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestJavaString(t *testing.T) {
	tests := map[string]string{
		"user-events": `"user-events"`,
		`a"b`:         `"a\"b"`,
		`back\slash`:  `"back\\slash"`,
		"line\nbreak": `"line\nbreak"`,
		"bell\a":      `"bell\u0007"`,
	}
	for in, want := range tests {
		if got := JavaString(in); got != want {
			t.Errorf("JavaString(%q) = %s; want %s", in, got, want)
		}
	}
}

func TestSplitTypeArgs(t *testing.T) {
	got := splitTypeArgs("String, Map<String, List<UUID>>")
	want := []string{"String", "Map<String, List<UUID>>"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitTypeArgs = %v; want %v", got, want)
	}
}

func TestDtoImports(t *testing.T) {
	got := dtoImports(&types.DtoDefinition{
		Name: "Order",
		Fields: []types.Field{
			{Name: "id", Type: "UUID"},
			{Name: "placedAt", Type: "Instant"},
			{Name: "total", Type: "BigDecimal"},
			{Name: "lines", Type: "List<Map<String, Long>>"},
			{Name: "note", Type: "String"},
		},
	})
	want := []string{"java.math.BigDecimal", "java.time.Instant", "java.util.List", "java.util.Map", "java.util.Objects", "java.util.UUID"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("dtoImports = %v; want %v", got, want)
	}
}

package templates

import (
	"fmt"
	"strings"
	"unicode"
)

// Capitalize upper-cases the first letter: userId -> UserId
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lower-cases the first letter: UserService -> userService
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// GoName converts any separator-delimited name to an exported Go identifier:
// user_id -> UserId, user-name -> UserName, userId -> UserId
func GoName(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, part := range parts {
		parts[i] = Capitalize(part)
	}
	name := strings.Join(parts, "")
	if name != "" && unicode.IsDigit([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}

// SimpleName strips the package from a qualified type name:
// com.example.service.UserService -> UserService
func SimpleName(typeName string) string {
	if i := strings.LastIndex(typeName, "."); i >= 0 {
		return typeName[i+1:]
	}
	return typeName
}

// isQualified reports whether a Java type name carries its package
func isQualified(typeName string) bool {
	return strings.Contains(typeName, ".")
}

// JavaString quotes s as a Java string literal
func JavaString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// typeTokens splits a type expression such as Map<String, List<UUID>> into
// its identifiers
func typeTokens(typeName string) []string {
	return strings.FieldsFunc(typeName, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '$'
	})
}

// splitTypeArgs splits the top-level comma separated arguments of a generic
// type: "String, List<UUID>" -> ["String", "List<UUID>"]
func splitTypeArgs(args string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range args {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(args[start:i]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(args[start:]); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}

// genericType splits List<UUID> into ("List", "UUID")
func genericType(typeName string) (base, args string, ok bool) {
	open := strings.Index(typeName, "<")
	if open <= 0 || !strings.HasSuffix(typeName, ">") {
		return "", "", false
	}
	return strings.TrimSpace(typeName[:open]), typeName[open+1 : len(typeName)-1], true
}

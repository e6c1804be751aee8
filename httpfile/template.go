package httpfile

import (
	"fmt"
	"regexp"
	"strings"
)

// SegmentKind tells the parts of a Template apart.
type SegmentKind int

const (
	// Literal text, sent as is.
	Literal SegmentKind = iota
	// Param is a `{name[:type]}` placeholder filled by the caller.
	Param
	// EnvRef is a `{{NAME[:default]}}` placeholder read from the environment.
	EnvRef
)

func (k SegmentKind) String() string {
	switch k {
	case Param:
		return "param"
	case EnvRef:
		return "env"
	default:
		return "literal"
	}
}

// Segment is one part of a Template. Text holds the literal text, or the
// placeholder name for Param and EnvRef segments.
type Segment struct {
	Kind    SegmentKind
	Text    string
	Type    string // Param only, always a Go type name
	Default string // EnvRef only
}

// Template is a string with placeholders.
type Template []Segment

// IsLiteral reports whether t has no placeholders.
func (t Template) IsLiteral() bool {
	for _, s := range t {
		if s.Kind != Literal {
			return false
		}
	}
	return true
}

// String renders t back in template syntax.
func (t Template) String() string {
	var b strings.Builder
	for _, s := range t {
		switch s.Kind {
		case Param:
			b.WriteString("{" + s.Text)
			if s.Type != "string" {
				b.WriteString(":" + s.Type)
			}
			b.WriteString("}")
		case EnvRef:
			b.WriteString("{{" + s.Text)
			if s.Default != "" {
				b.WriteString(":" + s.Default)
			}
			b.WriteString("}}")
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// Parameter is a caller supplied value of a request.
type Parameter struct {
	Name string
	Type string
}

// EnvLookup is an environment variable read by a request, with the value used
// when it is unset.
type EnvLookup struct {
	Name    string
	Default string
}

var (
	envRe   = regexp.MustCompile(`^\{\{\s*([A-Za-z_]\w*)\s*(?::([^{}]*))?\}\}`)
	paramRe = regexp.MustCompile(`^\{([A-Za-z_]\w*)(?:\s*:\s*([A-Za-z_]\w*))?\}`)
)

// goTypes maps accepted parameter type spellings to Go types.
var goTypes = map[string]string{
	"string": "string", "String": "string", "str": "string",
	"bool": "bool",
	"int": "int", "int8": "int8", "int16": "int16", "int32": "int32", "int64": "int64",
	"i8": "int8", "i16": "int16", "i32": "int32", "i64": "int64", "isize": "int",
	"uint": "uint", "uint8": "uint8", "uint16": "uint16", "uint32": "uint32", "uint64": "uint64",
	"u8": "uint8", "u16": "uint16", "u32": "uint32", "u64": "uint64", "usize": "uint",
	"float32": "float32", "float64": "float64", "f32": "float32", "f64": "float64",
	"byte": "byte", "rune": "rune",
}

// GoType returns the Go type for a parameter type spelling.
func GoType(spelling string) (string, bool) {
	t, ok := goTypes[spelling]
	return t, ok
}

// parseTemplate splits s into segments. Placeholders named in vars are
// replaced by their value. Braces that do not form a placeholder, such as the
// ones of a JSON body, stay literal.
func parseTemplate(s string, vars map[string]string) (Template, error) {
	var (
		t   Template
		lit strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			t = append(t, Segment{Kind: Literal, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		j := strings.IndexByte(s[i:], '{')
		if j < 0 {
			lit.WriteString(s[i:])
			break
		}
		lit.WriteString(s[i : i+j])
		i += j
		rest := s[i:]

		if m := envRe.FindStringSubmatch(rest); m != nil {
			flush()
			t = append(t, Segment{Kind: EnvRef, Text: m[1], Default: strings.TrimSpace(m[2])})
			i += len(m[0])
			continue
		}
		if m := paramRe.FindStringSubmatch(rest); m != nil {
			i += len(m[0])
			if v, ok := vars[m[1]]; ok {
				lit.WriteString(v)
				continue
			}
			typ := "string"
			if m[2] != "" {
				var ok bool
				if typ, ok = GoType(m[2]); !ok {
					return nil, fmt.Errorf("parameter %q has unsupported type %q", m[1], m[2])
				}
			}
			flush()
			t = append(t, Segment{Kind: Param, Text: m[1], Type: typ})
			continue
		}
		lit.WriteByte('{')
		i++
	}
	flush()
	return t, nil
}

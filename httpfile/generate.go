package httpfile

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

//go:embed httpfile.go.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "httpfile.go.tmpl"))

const importPath = "astuart.co/scrape/httpfile"

// GenerateOptions controls the generated source.
type GenerateOptions struct {
	// Package is the package clause of the output.
	Package string
	// Client names a `func() *http.Client` in the output package used to
	// obtain the client of each request.
	Client string
	// Source is recorded in the header comment.
	Source string
}

type genFile struct {
	Package string
	Source  string
	Client  string
	Imports [][]string
	Funcs   []genFunc
}

type genFunc struct {
	Name    string
	Request string
	Method  string
	URL     string
	Body    string
	Params  []genParam
	Env     []genEnv
	Headers []genHeader
}

type genParam struct {
	Ident string
	Type  string
}

type genEnv struct {
	Ident   string
	Name    string
	Default string
}

type genHeader struct {
	Key   string
	Value string
}

// Generate renders one exported function per request of f.
func Generate(f *File, opts GenerateOptions) ([]byte, error) {
	if opts.Package == "" {
		return nil, fmt.Errorf("httpfile: package name is required")
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("httpfile: invalid package name %q", opts.Package)
	}
	if opts.Client != "" && !token.IsIdentifier(opts.Client) {
		return nil, fmt.Errorf("httpfile: invalid client supplier %q", opts.Client)
	}
	if len(f.Requests) == 0 {
		return nil, fmt.Errorf("httpfile: %s has no requests", f.Name)
	}

	data := genFile{Package: opts.Package, Source: opts.Source, Client: "(&http.Client{})"}
	if opts.Client != "" {
		data.Client = opts.Client + "()"
	}
	imports := map[string]bool{"context": true, "net/http": true}

	seen := map[string]string{}
	for _, r := range f.Requests {
		fn := genFunc{Name: toPascalCase(r.Name), Request: r.Name, Method: r.Method, Body: "nil"}
		if prev, dup := seen[fn.Name]; dup {
			return nil, fmt.Errorf("httpfile: requests %q and %q both generate %s", prev, r.Name, fn.Name)
		}
		seen[fn.Name] = r.Name

		idents := map[string]string{}
		used := map[string]bool{"ctx": true, "req": true, "err": true}
		for _, p := range r.Params {
			id := localIdent(p.Name, used)
			idents["p:"+p.Name] = id
			fn.Params = append(fn.Params, genParam{Ident: id, Type: p.Type})
		}
		for _, e := range r.Env {
			id := localIdent("env_"+e.Name, used)
			idents["e:"+e.Name] = id
			fn.Env = append(fn.Env, genEnv{Ident: id, Name: e.Name, Default: e.Default})
			imports[importPath] = true
		}

		expr := func(t Template) string {
			s, sprintf := goExpr(t, idents)
			if sprintf {
				imports["fmt"] = true
			}
			return s
		}
		fn.URL = expr(r.URL)
		for _, h := range r.Headers {
			fn.Headers = append(fn.Headers, genHeader{Key: h.Key, Value: expr(h.Value)})
		}
		if r.Body != nil {
			fn.Body = "strings.NewReader(" + expr(r.Body) + ")"
			imports["strings"] = true
		}
		data.Funcs = append(data.Funcs, fn)
	}

	data.Imports = importGroups(imports)

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "httpfile.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated source: %w", err)
	}
	return out, nil
}

// goExpr returns a Go string expression for t and whether it calls
// fmt.Sprintf.
func goExpr(t Template, idents map[string]string) (string, bool) {
	if t.IsLiteral() {
		var b strings.Builder
		for _, s := range t {
			b.WriteString(s.Text)
		}
		return strconv.Quote(b.String()), false
	}

	if len(t) == 1 {
		switch s := t[0]; {
		case s.Kind == EnvRef:
			return idents["e:"+s.Text], false
		case s.Kind == Param && s.Type == "string":
			return idents["p:"+s.Text], false
		}
	}

	var (
		layout strings.Builder
		args   []string
	)
	for _, s := range t {
		switch s.Kind {
		case Param:
			layout.WriteString("%v")
			args = append(args, idents["p:"+s.Text])
		case EnvRef:
			layout.WriteString("%s")
			args = append(args, idents["e:"+s.Text])
		default:
			layout.WriteString(strings.ReplaceAll(s.Text, "%", "%%"))
		}
	}
	return "fmt.Sprintf(" + strconv.Quote(layout.String()) + ", " + strings.Join(args, ", ") + ")", true
}

// localIdent turns name into an unused lowerCamelCase identifier.
func localIdent(name string, used map[string]bool) string {
	id := toPascalCase(name)
	if id == "" {
		id = "arg"
	} else {
		id = strings.ToLower(id[:1]) + id[1:]
	}
	if token.IsKeyword(id) || isPredeclared(id) {
		id += "_"
	}
	for base, n := id, 2; used[id]; n++ {
		id = base + strconv.Itoa(n)
	}
	used[id] = true
	return id
}

func isPredeclared(id string) bool {
	switch id {
	case "fmt", "http", "strings", "context", "httpfile",
		"string", "int", "bool", "byte", "rune", "error", "len", "nil", "true", "false":
		return true
	}
	return false
}

// toPascalCase converts a snake_case or kebab-case name to PascalCase.
func toPascalCase(s string) string {
	acronyms := map[string]string{
		"id":   "ID",
		"url":  "URL",
		"http": "HTTP",
		"api":  "API",
		"json": "JSON",
		"xml":  "XML",
		"html": "HTML",
		"ip":   "IP",
		"uri":  "URI",
	}

	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})

	var sb strings.Builder
	for _, part := range parts {
		if acronym, ok := acronyms[strings.ToLower(part)]; ok {
			sb.WriteString(acronym)
		} else {
			sb.WriteString(strings.ToUpper(part[:1]) + part[1:])
		}
	}
	return sb.String()
}

// importGroups splits import paths into the standard library group and the
// rest, each sorted, the way goimports lays them out.
func importGroups(set map[string]bool) [][]string {
	var std, other []string
	for path := range set {
		if strings.Contains(strings.SplitN(path, "/", 2)[0], ".") {
			other = append(other, path)
		} else {
			std = append(std, path)
		}
	}
	sort.Strings(std)
	sort.Strings(other)

	var groups [][]string
	for _, g := range [][]string{std, other} {
		if len(g) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Package httpfile compiles `.http` request templates into requests that can
// be sent at run time or rendered as Go source.
//
// A template holds variable definitions and request blocks:
//
//	@host = example.com
//
//	### search
//	GET https://{{host}}/s?kw={query:string}&key={{API_KEY:demo}}
//	Accept: text/html
//
// `{{name}}` refers to a variable when one is defined and to an environment
// variable otherwise, with an optional default after the colon. `{name}` is a
// parameter supplied by the caller, with an optional type.
package httpfile

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
)

var (
	splitRe  = regexp.MustCompile(`(?m)^[ \t]*#{3,}@?`)
	nameRe   = regexp.MustCompile(`^[A-Za-z_][\w-]*$`)
	headerRe = regexp.MustCompile(`^([^\s:]+):\s*(.*)$`)
	protoRe  = regexp.MustCompile(`^HTTP/[\d.]+$`)
)

var methods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
	http.MethodConnect: true,
}

// SyntaxError reports a malformed template. Line is 1-based.
type SyntaxError struct {
	File string
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	file := e.File
	if file == "" {
		file = "httpfile"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", file, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", file, e.Msg)
}

// Header is a request header. A request may repeat a key.
type Header struct {
	Key   string
	Value Template
}

// Request is a compiled request block.
type Request struct {
	Name    string
	Method  string
	URL     Template
	Proto   string
	Headers []Header
	Body    Template // nil without a body
	Params  []Parameter
	Env     []EnvLookup
	Line    int

	opts *options
}

// File is a compiled template.
type File struct {
	Name      string
	Requests  []*Request
	Variables map[string]string

	vars *Variables
}

// Lookup returns the request with the given name.
func (f *File) Lookup(name string) (*Request, bool) {
	for _, r := range f.Requests {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// VariableNames returns the names of the `@` variables in definition order.
func (f *File) VariableNames() []string {
	return f.vars.Names()
}

// ParseFile reads and compiles the template at path.
func ParseFile(path string, opts ...Option) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(src), append([]Option{WithFilename(path)}, opts...)...)
}

// MustParse is like Parse but panics on error.
func MustParse(src string, opts ...Option) *File {
	f, err := Parse(src, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// Parse compiles a template. Either every request compiles or an error is
// returned.
func Parse(src string, opts ...Option) (*File, error) {
	o := newOptions(opts)

	vars, body := scanVariables(strings.ReplaceAll(src, "\r\n", "\n"))
	values := vars.Resolve()
	body = substitute(body, values)

	f := &File{Name: o.filename, Variables: values, vars: vars}

	bounds := splitRe.FindAllStringIndex(body, -1)
	start := 0
	for i := 0; i <= len(bounds); i++ {
		end := len(body)
		if i < len(bounds) {
			end = bounds[i][0]
		}
		block := body[start:end]
		line := strings.Count(body[:start], "\n") + 1
		if i < len(bounds) {
			start = bounds[i][1]
		}

		r, err := parseBlock(block, line, o)
		if err != nil {
			return nil, err
		}
		if r == nil {
			continue
		}
		if _, dup := f.Lookup(r.Name); dup {
			return nil, &SyntaxError{File: o.filename, Line: r.Line, Msg: fmt.Sprintf("duplicate request name %q", r.Name)}
		}
		f.Requests = append(f.Requests, r)
	}
	return f, nil
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//")
}

// parseBlock parses one request block. Blocks that only hold blank and
// comment lines yield nil.
func parseBlock(block string, line int, o *options) (*Request, error) {
	lines := strings.Split(block, "\n")
	fail := func(i int, format string, args ...interface{}) error {
		return &SyntaxError{File: o.filename, Line: line + i, Msg: fmt.Sprintf(format, args...)}
	}

	i := 0
	next := func() (string, bool) {
		for ; i < len(lines); i++ {
			l := strings.TrimSpace(lines[i])
			if l != "" && !isComment(l) {
				i++
				return l, true
			}
		}
		return "", false
	}

	name, ok := next()
	if !ok {
		return nil, nil
	}
	if !nameRe.MatchString(name) {
		return nil, fail(i-1, "invalid request name %q", name)
	}
	r := &Request{Name: name, Line: line + i - 1, opts: o}

	reqLine, ok := next()
	if !ok {
		return nil, fail(r.Line-line, "request %q has no request line", name)
	}
	fields := strings.Fields(reqLine)
	if !methods[fields[0]] {
		return nil, fail(i-1, "request %q: unsupported method %q", name, fields[0])
	}
	if len(fields) < 2 {
		return nil, fail(i-1, "request %q has no url", name)
	}
	if len(fields) > 3 || (len(fields) == 3 && !protoRe.MatchString(fields[2])) {
		return nil, fail(i-1, "request %q: malformed request line %q", name, reqLine)
	}
	r.Method = fields[0]
	if len(fields) == 3 {
		r.Proto = fields[2]
	}

	var err error
	if r.URL, err = parseTemplate(fields[1], o.vars); err != nil {
		return nil, fail(i-1, "request %q: %v", name, err)
	}

	for ; i < len(lines); i++ {
		l := strings.TrimSpace(lines[i])
		if l == "" {
			i++
			break
		}
		if isComment(l) {
			continue
		}
		m := headerRe.FindStringSubmatch(l)
		if m == nil {
			return nil, fail(i, "request %q: malformed header %q", name, l)
		}
		v, err := parseTemplate(m[2], o.vars)
		if err != nil {
			return nil, fail(i, "request %q: %v", name, err)
		}
		r.Headers = append(r.Headers, Header{Key: m[1], Value: v})
	}

	if i < len(lines) {
		body := strings.TrimRight(strings.Join(lines[i:], "\n"), " \t\n")
		body = strings.TrimLeft(body, "\n")
		if body != "" {
			if r.Body, err = parseTemplate(body, o.vars); err != nil {
				return nil, fail(i, "request %q: %v", name, err)
			}
		}
	}

	if err := r.collect(); err != nil {
		return nil, fail(r.Line-line, "request %q: %v", name, err)
	}
	return r, nil
}

// collect gathers the parameters and environment lookups in the order they
// first appear: url, headers, body.
func (r *Request) collect() error {
	seenParam := map[string]string{}
	seenEnv := map[string]bool{}
	visit := func(t Template) error {
		for _, s := range t {
			switch s.Kind {
			case Param:
				if typ, ok := seenParam[s.Text]; ok {
					if typ != s.Type {
						return fmt.Errorf("parameter %q declared as both %s and %s", s.Text, typ, s.Type)
					}
					continue
				}
				seenParam[s.Text] = s.Type
				r.Params = append(r.Params, Parameter{Name: s.Text, Type: s.Type})
			case EnvRef:
				if seenEnv[s.Text] {
					continue
				}
				seenEnv[s.Text] = true
				r.Env = append(r.Env, EnvLookup{Name: s.Text, Default: s.Default})
			}
		}
		return nil
	}

	if err := visit(r.URL); err != nil {
		return err
	}
	for _, h := range r.Headers {
		if err := visit(h.Value); err != nil {
			return err
		}
	}
	return visit(r.Body)
}

// Signature describes the request as a call, e.g. `search(query string)`.
func (r *Request) Signature() string {
	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = p.Name + " " + p.Type
	}
	return r.Name + "(" + strings.Join(params, ", ") + ")"
}

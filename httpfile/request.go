package httpfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Args holds the parameter values of a call, keyed by parameter name. Values
// are formatted with fmt.Sprint.
type Args map[string]interface{}

// NewRequest builds the request with every placeholder filled.
func (r *Request) NewRequest(ctx context.Context, args Args) (*http.Request, error) {
	for _, p := range r.Params {
		if _, ok := args[p.Name]; !ok {
			return nil, fmt.Errorf("httpfile: %s: missing argument %q", r.Name, p.Name)
		}
	}
	env := r.options().environment()

	var body io.Reader
	if r.Body != nil {
		body = strings.NewReader(r.Body.Render(args, env))
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.Render(args, env), body)
	if err != nil {
		return nil, fmt.Errorf("httpfile: %s: %w", r.Name, err)
	}
	for _, h := range r.Headers {
		req.Header.Add(h.Key, h.Value.Render(args, env))
	}
	return req, nil
}

// Do builds the request and sends it with the client of the file. The caller
// closes the response body.
func (r *Request) Do(ctx context.Context, args Args) (*http.Response, error) {
	req, err := r.NewRequest(ctx, args)
	if err != nil {
		return nil, err
	}
	return r.options().httpClient().Do(req)
}

func (r *Request) options() *options {
	if r.opts == nil {
		return &options{}
	}
	return r.opts
}

// Render fills the placeholders of t. Missing arguments render empty.
func (t Template) Render(args Args, env *Env) string {
	var b strings.Builder
	for _, s := range t {
		switch s.Kind {
		case Param:
			if v, ok := args[s.Text]; ok {
				fmt.Fprint(&b, v)
			}
		case EnvRef:
			b.WriteString(env.Lookup(s.Text, s.Default))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}
